// Command swirl renders animated gradient backgrounds.
package main

func main() {
	Execute()
}
