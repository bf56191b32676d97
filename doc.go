// Package pictor provides a typed client for remote image-generation APIs.
//
// The pictor library wraps several image-generation backends (OpenAI DALL-E,
// Black Forest Labs Flux, Stability AI, Leonardo.ai) behind one generic
// calling convention, so you can switch families without rewriting the
// plumbing: URI construction, bearer authentication, timeouts, and retry with
// exponential backoff are handled once, uniformly.
//
// # Core Concepts
//
//   - [Descriptor]: an immutable configuration bundle identifying one backend
//     target and its call policy. Each backend package builds one with its
//     family defaults.
//   - [Payload]: the contract every backend request type satisfies; each
//     request validates its own content before dispatch.
//   - [Error]: the single typed failure value, classified by [ErrorKind] so
//     callers can branch on what went wrong.
//
// Use the [github.com/spetersoncode/pictor/client] package as the entry
// point and the backend subpackages for request and response shapes.
//
// # Basic Usage
//
// Generate an image with DALL-E:
//
//	d, err := dalle.New(dalle.DefaultEndpoint, os.Getenv("OPENAI_API_KEY"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	c := client.New()
//	defer c.Close()
//
//	resp, err := dalle.Generate(ctx, c, d, &dalle.Request{
//	    Prompt: "a lighthouse in a thunderstorm, oil painting",
//	    Size:   dalle.Size1024x1024,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Data[0].URL)
//
// # Error Handling
//
// Every failure is a *[Error] with exactly one kind. Branch with the
// predicates:
//
//	resp, err := dalle.Generate(ctx, c, d, req)
//	switch {
//	case pictor.IsClient(err):
//	    // bad request; inspect pictor.StatusCodeOf(err) and pictor.BodyOf(err)
//	case pictor.IsTimeout(err):
//	    // descriptor deadline elapsed
//	case pictor.IsCancelled(err):
//	    // our own context was cancelled
//	}
//
// Network failures and 5xx responses are retried automatically up to the
// descriptor's retry budget with exponential backoff; everything else fails
// fast.
//
// # Persisting Output
//
// Responses carry base64 payloads or URLs. Decode and hand the bytes to a
// sink:
//
//	data, err := pictor.DecodeImage(resp.Data[0].B64JSON)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s := sink.NewFileSink("out")
//	if err := s.Write(ctx, "lighthouse.png", data); err != nil {
//	    log.Fatal(err)
//	}
package pictor
