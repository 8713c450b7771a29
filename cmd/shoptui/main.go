// Command shoptui is the terminal back-office of a beauty and cosmetics shop.
package main

import "github.com/devnullvoid/shoptui/internal/cli"

func main() {
	cli.Execute()
}
