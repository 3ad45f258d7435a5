package main

import (
	"context"
	"fmt"
	"log"

	"github.com/movetrack/tracksync"
)

func main() {
	flow, err := tracksync.Conf("./config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	progress := tracksync.ListenerFuncs{
		Started: func(total int64) {
			fmt.Printf("syncing %d points\n", total)
		},
		Progressed: func(p tracksync.Progress) {
			fmt.Printf("measurement %d: uploaded %d points (%d bytes)\n",
				p.MeasurementID, p.Points, p.Bytes)
		},
		TransmitError: func(msg string, cause error) {
			fmt.Printf("upload failed: %s: %v\n", msg, cause)
		},
		Finished: func() {
			fmt.Println("sync pass done")
		},
	}

	if err := flow.Run(ctx, tracksync.ToCallback(progress)); err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}
