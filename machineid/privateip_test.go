package machineid

import (
	"errors"
	"fmt"
	"testing"
)

func TestFromPrivateIP(t *testing.T) {
	tests := []struct {
		optional   string
		workerCIDR string
		podIP      string
		want       uint64
		want1      uint8
		wantErr    error
	}{
		{"", "0.0.0.0/16", "10.2.3.4", 3*(1<<8) + 4, 16, nil},
		{"", "0.0.0.0/24", "10.2.3.4", 4, 8, nil},
		{"", "0.0.0.0/22", "10.2.3.4", 3*(1<<8) + 4, 10, nil},
		{"", "0.0.0.0/23", "10.2.3.4", 1*(1<<8) + 4, 9, nil},
		{"", "0.0.0.0/30", "192.168.0.7", 3, 2, nil},

		{"err not private ip ", "0.0.0.0/24", "1.2.3.4", 0, 0, ErrBadPodIP},
		{"err not an ip ", "0.0.0.0/24", "pod", 0, 0, ErrBadPodIP},
		{"err ipv6 ", "0.0.0.0/24", "fd00::1", 0, 0, ErrBadPodIP},
		{"err to many ips ", "0.0.0.0/8", "10.2.3.4", 0, 0, ErrMaskRange},
		{"err to few ips ", "0.0.0.0/32", "10.2.3.4", 0, 0, ErrMaskRange},
		{"err bad cidr ", "nope", "10.2.3.4", 0, 0, ErrBadWorkerCIDR},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%scidr=%s,ip=%s", tt.optional, tt.workerCIDR, tt.podIP), func(t *testing.T) {
			got, got1, err := FromPrivateIP(tt.workerCIDR, tt.podIP)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("FromPrivateIP() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("FromPrivateIP() id = %v, want %v", got, tt.want)
			}
			if got1 != tt.want1 {
				t.Errorf("FromPrivateIP() bits = %v, want %v", got1, tt.want1)
			}
		})
	}
}

func TestFromPrivateIPFor(t *testing.T) {
	id, err := FromPrivateIPFor("0.0.0.0/22", "10.0.7.255", 12)
	if err != nil {
		t.Fatalf("FromPrivateIPFor() error = %v", err)
	}
	if id != 3*(1<<8)+255 {
		t.Errorf("FromPrivateIPFor() = %d", id)
	}
	if _, err = FromPrivateIPFor("0.0.0.0/16", "10.0.7.255", 12); !errors.Is(err, ErrTooWide) {
		t.Errorf("FromPrivateIPFor() error = %v, want %v", err, ErrTooWide)
	}
}
