// Package lorem is a mock responder that generates lorem ipsum replies.
// Used for development without API keys; it never returns structured tags,
// which exercises the fallback extraction path end to end.
package lorem

import (
	"context"
	"strings"

	loremgen "github.com/bozaro/golorem"

	leadSvc "leadgate/internal/domain/services/lead"
)

// Provider implements the Responder interface with generated text.
type Provider struct {
	generator *loremgen.Lorem
}

// NewProvider creates a new lorem responder.
func NewProvider() *Provider {
	return &Provider{
		generator: loremgen.New(),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "lorem"
}

// Generate returns a short generated paragraph. Longer user messages get
// longer replies so the Q&A length heuristics see realistic input.
func (p *Provider) Generate(ctx context.Context, req *leadSvc.ResponderRequest) (*leadSvc.ResponderResponse, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	sentences := 2
	if len(req.UserText) > 40 {
		sentences = 5
	}

	var b strings.Builder
	for i := 0; i < sentences; i++ {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(p.generator.Sentence(5, 12))
	}

	return &leadSvc.ResponderResponse{
		Reply:    b.String(),
		Language: req.Language,
	}, nil
}
