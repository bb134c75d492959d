package main

import "github.com/frahmantamala/staff-requests/cmd"

func main() {
	cmd.Execute()
}
