// Package machineid derives generator machine ids from what a workload knows
// about itself.
//
// A generator only guarantees unique ids if no other generator shares its
// machine id. The preferred source is FromPrivateIP, which selects bits from
// the pod's private ip address so that two pods in the same subnet can't
// collide. FromHostID is a best effort fallback.
package machineid
