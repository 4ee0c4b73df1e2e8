// Command syncpack lints and fixes dependency versions across the
// package.json files of a JavaScript monorepo.
package main

func main() {
	execute()
}
