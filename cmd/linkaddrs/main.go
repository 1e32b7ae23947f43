// Binary linkaddrs prints the IP addresses configured on the host's
// network interfaces.
package main

func main() {
	Execute()
}
