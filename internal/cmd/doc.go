// Package cmd provides the `flakeid` command-line tool.
//
// Configuration is read from the file named by --config (JSON or YAML), then
// overlaid with FLAKEID_* environment variables, then with flags.
//
// Usage
//
//	flakeid gen --machine-id 7 -n 3
//	flakeid gen --worker-cidr 10.0.0.0/22 --pod-ip 10.0.1.5
//	flakeid gen128 --host-id
//
//	flakeid decode 1812345678901248
//	flakeid decode --format cbor 1812345678901248
//	flakeid decode128 0180a1b2-c3d4-0007-5e2f-9a1b3c4d5e6f
//
//	flakeid machine-id --worker-cidr 10.0.0.0/22 --pod-ip 10.0.1.5
//
//	# issue ids from 8 goroutines and print the generator metrics
//	flakeid bench --machine-id 1 --workers 8 --count 1000000
package cmd
