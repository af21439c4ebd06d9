// Command playtime formats and parses the play_time_ms values stored in
// the retirement leaderboard, without needing to open a database client.
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "format":
		if len(os.Args) < 3 {
			fmt.Println("Usage: playtime format <play_time_ms>")
			return
		}
		ms, err := strconv.ParseInt(os.Args[2], 10, 64)
		if err != nil {
			fmt.Printf("invalid play_time_ms: %v\n", err)
			return
		}
		fmt.Println(time.Duration(ms) * time.Millisecond)
	case "seconds":
		if len(os.Args) < 3 {
			fmt.Println("Usage: playtime seconds <play_time_ms>")
			return
		}
		ms, err := strconv.ParseInt(os.Args[2], 10, 64)
		if err != nil {
			fmt.Printf("invalid play_time_ms: %v\n", err)
			return
		}
		fmt.Printf("%.3f\n", float64(ms)/1000)
	case "parse":
		if len(os.Args) < 3 {
			fmt.Println("Usage: playtime parse <duration> (e.g. 1h2m3s)")
			return
		}
		d, err := time.ParseDuration(os.Args[2])
		if err != nil {
			fmt.Printf("invalid duration: %v\n", err)
			return
		}
		fmt.Println(d.Milliseconds())
	default:
		printHelp()
	}
}

func printHelp() {
	fmt.Println(`playtime - inspect retirement play_time_ms values
Commands:
  format <play_time_ms>   - render as a human-readable duration
  seconds <play_time_ms>  - convert to fractional seconds (spec's playTime field)
  parse <duration>        - convert a Go duration string (e.g. 1h2m3s) to play_time_ms`)
}
