// Package discovery locates webOS TVs on the local network.
//
// The primary mechanism is SSDP: an M-SEARCH datagram for the DIAL service
// type is sent to 239.255.255.250:1900 and replies are read until one
// mentions "WebOS" or "LG Smart TV". mDNS browsing (via zeroconf) is
// available as a fallback for networks that filter SSDP.
//
// # Discovery Process
//
//  1. Bind a UDP socket on an ephemeral port
//  2. Send an M-SEARCH with MX = timeout - 1 seconds
//  3. Read replies until none arrives within the timeout
//  4. Return the first reply from a webOS TV, or retry up to Tries times
//
// The timeout is clamped to [2s, 120s].
//
// # Usage Example
//
//	scanner := discovery.NewScanner()
//	device, err := scanner.Discover(ctx)
//	if errors.Is(err, discovery.ErrNotFound) {
//	    device, err = discovery.NewMDNSScanner().Discover(ctx)
//	}
//	if err != nil {
//	    return err
//	}
//	fmt.Println("Found:", device)
//
// # Device Information
//
// A Device carries the responding IP address, the SSDP SERVER/LOCATION/USN
// headers (or the mDNS hostname and TXT records) and when it was found.
package discovery
