package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"

	"tubeclip/cmd"
	"tubeclip/config"
	"tubeclip/services"
	"tubeclip/types"
)

func main() {
	var (
		url    string
		start  float64
		end    float64
		title  string
		artist string
		album  string
		genre  string
		output string
		server bool
		port   int
	)

	flag.StringVar(&url, "url", "", "Video URL to convert")
	flag.Float64Var(&start, "start", 0, "Trim start in seconds")
	flag.Float64Var(&end, "end", -1, "Trim end in seconds (default: full length)")
	flag.StringVar(&title, "title", "", "Title tag to embed")
	flag.StringVar(&artist, "artist", "", "Artist tag to embed")
	flag.StringVar(&album, "album", "", "Album tag to embed")
	flag.StringVar(&genre, "genre", "", "Genre tag to embed")
	flag.StringVar(&output, "o", "", "Output file (default: <title>.mp3)")
	flag.BoolVar(&server, "server", false, "Start in web server mode")
	flag.IntVar(&port, "port", 8080, "Port for web server mode")
	flag.Parse()

	// Server mode takes precedence
	if server {
		cmd.StartWebServer(port)
		return
	}

	if url == "" {
		flag.Usage()
		return
	}

	req := &types.ConvertRequest{
		URL:    url,
		Start:  start,
		Title:  title,
		Artist: artist,
		Album:  album,
		Genre:  genre,
	}
	if end >= 0 {
		req.End = &end
	}

	if err := convertToFile(req, output); err != nil {
		log.Fatalf("Error: %s", err)
	}
}

// convertToFile runs the pipeline once and writes the MP3 next to the
// caller, mirroring what the web endpoint streams.
func convertToFile(req *types.ConvertRequest, output string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline := services.NewPipeline(
		services.NewResolver(),
		services.NewTranscoder(),
		services.NewTagWriter(),
		config.GetTempRoot(),
	)

	result, err := pipeline.Convert(ctx, req)
	if err != nil {
		return err
	}

	name := output
	if name == "" {
		name = req.Title
	}
	if name == "" {
		name = result.Title
	}
	if name == "" {
		name = "audio"
	}
	if len(name) < 4 || name[len(name)-4:] != ".mp3" {
		name += ".mp3"
	}

	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	bar := progressbar.DefaultBytes(int64(len(result.Audio)), "saving")
	if _, err := io.Copy(io.MultiWriter(f, bar), bytes.NewReader(result.Audio)); err != nil {
		return err
	}

	log.Printf("Saved %q (%d bytes) from %s", name, len(result.Audio), result.Title)
	return nil
}
