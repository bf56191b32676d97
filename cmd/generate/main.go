// Command generate is a sample CLI: it builds a descriptor from environment
// configuration, generates one image from a prompt, and persists the result.
//
// Usage:
//
//	PICTOR_BACKEND=dalle PICTOR_API_KEY=sk-... generate "a red fox in the snow"
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spetersoncode/pictor"
	"github.com/spetersoncode/pictor/backend/dalle"
	"github.com/spetersoncode/pictor/backend/flux"
	"github.com/spetersoncode/pictor/backend/leonardo"
	"github.com/spetersoncode/pictor/backend/stability"
	"github.com/spetersoncode/pictor/client"
	"github.com/spetersoncode/pictor/config"
	"github.com/spetersoncode/pictor/sink"
	"github.com/spetersoncode/pictor/zaplog"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: generate <prompt>")
		os.Exit(1)
	}
	prompt := strings.Join(os.Args[1:], " ")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := zaplog.Development()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	c := client.New(client.WithLogger(logger))
	defer c.Close()

	ctx := context.Background()
	if err := run(ctx, c, cfg, prompt); err != nil {
		fmt.Fprintf(os.Stderr, "generate: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client.Client, cfg *config.Config, prompt string) error {
	opts := descriptorOptions(cfg)
	out := sink.NewFileSink(cfg.OutputDir)

	switch cfg.Backend {
	case "dalle":
		d, err := dalle.New(endpointOr(cfg, dalle.DefaultEndpoint), cfg.APIKey, opts...)
		if err != nil {
			return err
		}
		resp, err := dalle.Generate(ctx, c, d, &dalle.Request{
			Prompt:         prompt,
			ResponseFormat: dalle.FormatB64JSON,
		})
		if err != nil {
			return err
		}
		for i, img := range resp.Data {
			if img.B64JSON == "" {
				fmt.Println(img.URL)
				continue
			}
			if err := persist(ctx, out, fmt.Sprintf("dalle-%d.png", i), img.B64JSON); err != nil {
				return err
			}
		}

	case "flux":
		d, err := flux.New(endpointOr(cfg, flux.DefaultEndpoint), cfg.APIKey, opts...)
		if err != nil {
			return err
		}
		resp, err := flux.Generate(ctx, c, d, &flux.Request{Prompt: prompt})
		if err != nil {
			return err
		}
		if resp.Result != nil {
			fmt.Println(resp.Result.Sample)
		} else {
			fmt.Printf("generation %s: %s\n", resp.ID, resp.Status)
		}

	case "stability":
		d, err := stability.New(endpointOr(cfg, stability.DefaultEndpoint), cfg.APIKey, opts...)
		if err != nil {
			return err
		}
		resp, err := stability.Generate(ctx, c, d, &stability.Request{Prompt: prompt})
		if err != nil {
			return err
		}
		if err := persist(ctx, out, "stability.png", resp.Image); err != nil {
			return err
		}

	case "leonardo":
		d, err := leonardo.New(endpointOr(cfg, leonardo.DefaultEndpoint), cfg.APIKey, opts...)
		if err != nil {
			return err
		}
		resp, err := leonardo.Generate(ctx, c, d, &leonardo.Request{Prompt: prompt})
		if err != nil {
			return err
		}
		for _, img := range resp.Images {
			fmt.Println(img.URL)
		}
	}
	return nil
}

func descriptorOptions(cfg *config.Config) []pictor.ProfileOption {
	opts := []pictor.ProfileOption{
		pictor.WithTimeout(cfg.Timeout),
		pictor.WithMaxRetries(cfg.MaxRetries),
		pictor.WithRetryBaseDelay(cfg.RetryBaseDelay),
	}
	if cfg.Model != "" {
		opts = append(opts, pictor.WithModelName(cfg.Model))
	}
	return opts
}

func endpointOr(cfg *config.Config, def string) string {
	if cfg.Endpoint != "" {
		return cfg.Endpoint
	}
	return def
}

func persist(ctx context.Context, out sink.Sink, name, b64 string) error {
	data, err := pictor.DecodeImage(b64)
	if err != nil {
		return err
	}
	if err := out.Write(ctx, name, data); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bytes)\n", name, len(data))
	return nil
}
