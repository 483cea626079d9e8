package assets

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/iter"
	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/chime/internal/log"
)

// DescriptorResult is the settled outcome of one descriptor fetch.
type DescriptorResult struct {
	Location string
	Entries  map[string]string
	Err      error
}

// LoadDescriptors fetches every descriptor named by m concurrently and waits
// for all of them to settle. Failed descriptors are logged and contribute
// nothing; the Registry is returned even if every descriptor failed.
//
// Entries merge in this order, last write wins: the manifest's inline
// entries, then descriptors in manifest order.
func LoadDescriptors(ctx context.Context, fetcher Fetcher, m Manifest) (Registry, []DescriptorResult) {
	ctx, span := tracer.Start(ctx, "assets.LoadDescriptors")
	defer span.End()

	results := iter.Map(m.Descriptors, func(loc *string) DescriptorResult {
		return loadDescriptor(ctx, fetcher, *loc)
	})

	merged := make(map[string]string, len(m.Inline))
	for k, v := range m.Inline {
		merged[k] = v
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		for k, v := range r.Entries {
			if prev, ok := merged[k]; ok && prev != v {
				log.Debug(log.CatAssets, "Sound key redefined", "key", k, "previous", prev, "source", v, "descriptor", r.Location)
			}
			merged[k] = v
		}
	}

	reg := NewRegistry(merged)
	span.SetAttributes(
		attribute.Int("descriptors.total", len(results)),
		attribute.Int("descriptors.failed", failed),
		attribute.Int("registry.keys", reg.Len()),
	)
	log.Info(log.CatAssets, "All descriptor loads settled",
		"total", len(results), "failed", failed, "keys", reg.Len())
	return reg, results
}

func loadDescriptor(ctx context.Context, fetcher Fetcher, location string) DescriptorResult {
	res := DescriptorResult{Location: location}

	data, err := fetcher.Fetch(ctx, location)
	if err != nil {
		res.Err = err
		log.Error(log.CatAssets, "Descriptor load failed", "path", location, "error", err)
		return res
	}

	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		res.Err = fmt.Errorf("parsing descriptor %s: %w", location, err)
		log.Error(log.CatAssets, "Descriptor load failed", "path", location, "error", res.Err)
		return res
	}

	res.Entries = stringEntries(doc, location)
	log.Debug(log.CatAssets, "Descriptor loaded", "path", location, "keys", len(res.Entries))
	return res
}
