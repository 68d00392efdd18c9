// Command flor-web serves the Flor storefront: the filterable catalogue and the cookie-backed cart.
package main

func main() {
	Execute()
}
