package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"pkt.systems/docqa"
	"pkt.systems/docqa/client"
	"pkt.systems/docqa/internal/console"
	"pkt.systems/version"
)

const (
	defaultSimChunk = 3
	defaultSimDelay = 20 * time.Millisecond
)

func (a *app) uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a document for processing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := normalizePath(args[0])
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open document: %w", err)
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return fmt.Errorf("open document: %w", err)
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			a.status.Statusf(console.Info, "Uploading %s (%.2f KB)...", filepath.Base(path), float64(info.Size())/1024)
			res, err := c.ProcessDocument(cmd.Context(), a.cfg.CompanyID, filepath.Base(path), f)
			if err != nil {
				return err
			}
			a.status.Statusf(console.Success, "Success! %d chunks created.", res.ChunksCount)
			return nil
		},
	}
}

func (a *app) queryCmd() *cobra.Command {
	var (
		stream bool
		output string
	)
	cmd := &cobra.Command{
		Use:   "query QUERY...",
		Short: "Ask a question and render the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			c, err := a.client()
			if err != nil {
				return err
			}
			renderer, err := a.renderer()
			if err != nil {
				return err
			}
			a.status.Status(console.Info, "Querying documents...")
			if stream {
				return a.streamQuery(cmd, c, renderer, query, output)
			}
			return a.plainQuery(cmd, c, renderer, query, output)
		},
	}
	cmd.Flags().BoolVarP(&stream, "stream", "s", false, "Stream the answer as it is generated")
	cmd.Flags().StringVarP(&output, "output", "o", "", "HTML file rewritten as the answer arrives (default stdout)")
	return cmd
}

func (a *app) plainQuery(cmd *cobra.Command, c *client.Client, r *docqa.Renderer, query, output string) error {
	sink, flush := a.sink(output, nil)
	res, err := c.Query(cmd.Context(), a.cfg.CompanyID, query)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && len(apiErr.Body) > 0 {
			_ = sink.SetContent(docqa.PreformattedMarkup(client.Indent(apiErr.Body)))
		} else {
			_ = sink.SetContent(docqa.ErrorMarkup(err))
		}
		_ = flush()
		return err
	}
	if err := sink.SetContent(r.RenderAnswer(res.Response, res.ContextUsed)); err != nil {
		return err
	}
	if err := flush(); err != nil {
		return err
	}
	a.status.Status(console.Success, "Query successful!")
	return nil
}

func (a *app) streamQuery(cmd *cobra.Command, c *client.Client, r *docqa.Renderer, query, output string) error {
	sink, flush := a.sink(output, streamWrap)
	src, err := c.QueryStream(cmd.Context(), a.cfg.CompanyID, query)
	if err != nil {
		_ = sink.SetContent(docqa.ErrorMarkup(err))
		_ = flush()
		return err
	}
	a.status.Status(console.Info, "Streaming response...")
	res, err := docqa.Stream(cmd.Context(), docqa.StreamRequest{
		Source:   src,
		Sink:     sink,
		Renderer: r,
		Logger:   a.log.With("component", "stream"),
	})
	if ferr := flush(); ferr != nil && err == nil {
		err = ferr
	}
	if err != nil {
		if isCancelled(err) {
			a.status.Status(console.Info, "Streaming cancelled.")
		}
		return err
	}
	a.log.Debug("stream finished", "chunks", res.Chunks, "bytes", res.Bytes)
	a.status.Status(console.Success, "Streaming complete!")
	return nil
}

// streamWrap puts rendered answer markup in the streaming container. Error
// markup replaces the container instead. Rendered answers escape '<', so they
// never start with a pre tag.
func streamWrap(markup string) string {
	if strings.HasPrefix(markup, "<pre>") {
		return markup
	}
	return docqa.StreamContainer(markup)
}

func (a *app) collectionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collection",
		Short: "Show collection information for the company",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			raw, err := c.CollectionInfo(cmd.Context(), a.cfg.CompanyID)
			if err != nil {
				var apiErr *client.APIError
				if errors.As(err, &apiErr) && len(apiErr.Body) > 0 {
					console.New(a.out).Raw(client.Indent(apiErr.Body))
				}
				return err
			}
			console.New(a.out).Raw(client.Indent(raw))
			return nil
		},
	}
}

func (a *app) renderCmd() *cobra.Command {
	var (
		output       string
		simulate     bool
		simChunkSize int
		simDelay     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "render [FILE|URL...]",
		Short: "Render local answer text through the streaming renderer",
		Long: `render reads text from files, URLs or stdin and renders it exactly as a
streamed answer would be rendered. With --simulate the input is replayed in
small chunks so the live output can be watched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := a.renderer()
			if err != nil {
				return err
			}
			reader, closer, err := openInputs(cmd.Context(), args)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			if closer != nil {
				defer func() { _ = closer.Close() }()
			}
			var src docqa.Source
			if simulate {
				src, err = docqa.SimulateSource(docqa.SimulateRequest{
					Reader:    reader,
					ChunkSize: simChunkSize,
					Delay:     simDelay,
				})
				if err != nil {
					return err
				}
			} else {
				src = docqa.NewReaderSource(reader, 0)
			}
			sink, flush := a.sink(output, nil)
			_, err = docqa.Stream(cmd.Context(), docqa.StreamRequest{
				Source:   src,
				Sink:     sink,
				Renderer: renderer,
				Logger:   a.log.With("component", "stream"),
			})
			if ferr := flush(); ferr != nil && err == nil {
				err = ferr
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "HTML file rewritten on every chunk (default stdout)")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "Replay the input as a slow stream")
	cmd.Flags().IntVar(&simChunkSize, "simulate-chunk", defaultSimChunk, "Max bytes per simulated chunk")
	cmd.Flags().DurationVar(&simDelay, "simulate-delay", defaultSimDelay, "Delay between simulated chunks")
	return cmd
}

func (a *app) themesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List available themes",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			for _, name := range docqa.AvailableThemes() {
				fmt.Fprintln(a.out, name)
			}
			return nil
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			fmt.Fprintln(a.out, version.Module(), version.Current())
			return nil
		},
	}
}
