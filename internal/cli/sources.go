package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	formgen "github.com/NamazuStudios/elements-formgen"
	"github.com/NamazuStudios/elements-formgen/pkg/client"
	"github.com/NamazuStudios/elements-formgen/pkg/loader"
	"github.com/NamazuStudios/elements-formgen/pkg/metadata"
)

func (a *app) loader() loader.Loader {
	opts := []loader.LoaderOption{loader.WithHTTPFallback(a.cfg.API.Timeout)}
	if secret := a.cfg.API.SessionSecret; secret != "" {
		opts = append(opts, loader.WithHeader(client.SessionHeader, secret))
	}
	return formgen.NewLoader(opts...)
}

func (a *app) loadDocument(ctx context.Context, raw string) (loader.Document, error) {
	src, err := loader.ParseSource(raw)
	if err != nil {
		return loader.Document{}, err
	}
	return a.loader().Load(ctx, src)
}

// loadValues reads a value tree; an empty location yields an empty tree.
func (a *app) loadValues(ctx context.Context, raw string) (metadata.ValueTree, error) {
	if strings.TrimSpace(raw) == "" {
		return metadata.ValueTree{}, nil
	}
	doc, err := a.loadDocument(ctx, raw)
	if err != nil {
		return nil, err
	}
	return loader.DecodeValues(doc)
}

func (a *app) client() (*client.Client, error) {
	if a.cfg.API.BaseURL == "" {
		return nil, errors.New("api.base_url is not configured")
	}
	logger := a.logger
	return client.New(client.Config{
		BaseURL:       a.cfg.API.BaseURL,
		SessionSecret: a.cfg.API.SessionSecret,
		Timeout:       a.cfg.API.Timeout,
		Logger:        &logger,
	})
}

// specFlags selects a metadata spec from a document or from the API.
type specFlags struct {
	path string
	id   string
}

func (f specFlags) empty() bool {
	return strings.TrimSpace(f.path) == "" && strings.TrimSpace(f.id) == ""
}

func (a *app) resolveSpec(ctx context.Context, flags specFlags) (*metadata.MetadataSpec, error) {
	switch {
	case flags.path != "" && flags.id != "":
		return nil, errors.New("--spec and --spec-id are mutually exclusive")
	case flags.path != "":
		doc, err := a.loadDocument(ctx, flags.path)
		if err != nil {
			return nil, err
		}
		return loader.DecodeMetadataSpec(doc)
	case flags.id != "":
		c, err := a.client()
		if err != nil {
			return nil, err
		}
		spec, err := c.GetMetadataSpec(ctx, flags.id)
		if err != nil {
			return nil, fmt.Errorf("fetch spec %s: %w", flags.id, err)
		}
		return spec, nil
	default:
		return nil, nil
	}
}
