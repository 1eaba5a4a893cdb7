// syncset CLI - fetch, push and delete remote record collections.
package main

func main() {
	Execute()
}
