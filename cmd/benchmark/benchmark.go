package main

import (
	"bytes"
	"context"
	"flag"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/tmpim/monoimg"
)

var (
	iterations = flag.Int("n", 100, "number of encodes per configuration")
	maxWorkers = flag.Int("workers", runtime.NumCPU(), "largest worker count to try")
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	if flag.NArg() != 1 {
		log.Println("Usage: benchmark [options] input_image")
		flag.PrintDefaults()
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Println("Failed to open image:", err)
		os.Exit(1)
	}

	grid, format, err := monoimg.DecodeGrid(f, monoimg.Luma)
	f.Close()
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}

	w, h := grid.Size()
	log.Printf("Loaded %s image, %dx%d", format, w, h)

	var reference []byte

	for workers := 1; workers <= *maxWorkers; workers *= 2 {
		start := time.Now()

		var bm *monoimg.Bitmap
		for i := 0; i < *iterations; i++ {
			bm, err = monoimg.EncodeContext(context.Background(), grid, monoimg.EncoderOptions{
				Policy:  monoimg.DefaultPolicy(),
				Workers: workers,
			})
			if err != nil {
				log.Println("Failed to encode image:", err)
				os.Exit(1)
			}
		}

		took := time.Since(start)

		if reference == nil {
			reference = bm.Bytes()
		} else if !bytes.Equal(reference, bm.Bytes()) {
			log.Printf("workers=%d produced different output", workers)
			os.Exit(1)
		}

		log.Printf("workers=%-3d took: %s (%s per encode)", workers, took,
			took/time.Duration(*iterations))
	}
}
