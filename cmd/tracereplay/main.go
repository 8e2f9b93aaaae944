// tracereplay replays a recorded instrumentation stream through a
// bridge, so traces captured elsewhere can be turned into timeline
// files and console transcripts.
package main

func main() {
	Execute()
}
