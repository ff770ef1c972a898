package main

import (
	"fmt"

	"github.com/fatih/color"
)

const helpString = `Bridge a local camera to a streaming client

Usage: uvcamd [OPTION]...

Video source:
  -i, --input=FILE       Video capture device (default: /dev/video0)
  -x, --width=NUM        Video width (default: 640)
  -y, --height=NUM       Video height (default: 480)
  -r, --rate=NUM         Frame rate, in frames per second (default: 30)

Transport:
  -m, --max-frame=NUM    Transport buffer capacity, in bytes (default: 61440)
  -l, --listen=ADDR      HTTP listen address (default: :8080)

Miscellaneous:
  -h, --help             Prints this help message and exits
  -v, --version          Prints version information and exits

Connect a websocket client to ws://<host>/stream to receive MJPEG frames.`

// Help information is printed and program exits (GNU convention)
func help() {
	b := color.New(color.FgCyan)
	y := color.New(color.FgYellow)

	//  _   _  _  _  ___  __ _  _ __ ___
	// | | | || || |/ __|/ _` || '_ ` _ \
	// | |_| || V /| (__| (_| || | | | | |
	//  \__,_| \_/  \___|\__,_||_| |_| |_|

	b.Printf("  _   _ ")
	y.Printf(" _  _ ")
	b.Printf(" ___ ")
	y.Println(" __ _  _ __ ___  ")

	b.Printf(" | | | |")
	y.Printf("| || |")
	b.Printf("/ __|")
	y.Println("/ _` || '_ ` _ \\ ")

	b.Printf(" | |_| |")
	y.Printf("| V /")
	b.Printf("| (__")
	y.Println("| (_| || | | | | |")

	b.Printf("  \\__,_|")
	y.Printf(" \\_/ ")
	b.Printf(" \\___|")
	y.Println("\\__,_||_| |_| |_|")

	fmt.Println(helpString)
}

// version displays information and exits successfully (GNU convention)
func version() {
	fmt.Println("uvcamd", GitTag, GitRevisionId)
	fmt.Println("Copyright 2020 Honu Labs. All rights reserved.")
}
