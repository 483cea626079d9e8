package assets

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/chime/internal/log"
)

// ErrManifest marks a manifest that could not be fetched or parsed.
// It is fatal: no sound table is built without a manifest.
var ErrManifest = errors.New("manifest unavailable")

var tracer = otel.Tracer("github.com/zjrosen/chime/internal/assets")

// Manifest lists descriptor locations in declaration order. Inline holds any
// other key→path entries the manifest document itself declares.
type Manifest struct {
	Location    string
	Descriptors []string
	Inline      map[string]string
}

// LoadManifest fetches and parses the manifest document at location.
func LoadManifest(ctx context.Context, fetcher Fetcher, location string) (Manifest, error) {
	ctx, span := tracer.Start(ctx, "assets.LoadManifest")
	defer span.End()
	span.SetAttributes(attribute.String("manifest.location", location))

	data, err := fetcher.Fetch(ctx, location)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Manifest{}, fmt.Errorf("%w: %w", ErrManifest, err)
	}

	m, err := parseManifest(data)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Manifest{}, fmt.Errorf("%w: %s: %w", ErrManifest, location, err)
	}
	m.Location = location

	span.SetAttributes(attribute.Int("manifest.descriptors", len(m.Descriptors)))
	log.Info(log.CatAssets, "Manifest loaded", "location", location, "descriptors", len(m.Descriptors), "inline", len(m.Inline))
	return m, nil
}

func parseManifest(data []byte) (Manifest, error) {
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Manifest{}, fmt.Errorf("parsing manifest: %w", err)
	}

	listNode, ok := doc[ManifestKey]
	if !ok {
		return Manifest{}, fmt.Errorf("missing %q list", ManifestKey)
	}
	var list []string
	if err := listNode.Decode(&list); err != nil {
		return Manifest{}, fmt.Errorf("%q must be a list of strings: %w", ManifestKey, err)
	}

	delete(doc, ManifestKey)
	return Manifest{
		Descriptors: list,
		Inline:      stringEntries(doc, "manifest"),
	}, nil
}

// stringEntries keeps scalar string values and logs the rest.
func stringEntries(doc map[string]yaml.Node, origin string) map[string]string {
	out := make(map[string]string, len(doc))
	for key, node := range doc {
		if node.Kind != yaml.ScalarNode || node.ShortTag() != "!!str" || node.Value == "" {
			log.Warn(log.CatAssets, "Skipping non-string sound entry", "origin", origin, "key", key)
			continue
		}
		out[key] = node.Value
	}
	return out
}
