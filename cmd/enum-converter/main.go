package main

// main is the entry point for the enum-converter application. Version
// variables live in root.go and are populated at build time via -ldflags.
func main() {
	Execute()
}
