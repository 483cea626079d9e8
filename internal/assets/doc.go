// Package assets discovers sound assets.
//
// Discovery runs in two steps. LoadManifest fetches the manifest document,
// whose assetList key names descriptor documents. LoadDescriptors then fetches
// every descriptor concurrently, waits for all of them to settle, and merges
// their key→path entries into one immutable Registry. A failing descriptor
// is logged and skipped; only a failing manifest is fatal.
//
// Documents are YAML:
//
//	# scripts/assetList.yaml
//	assetList:
//	  - scripts/ui-sounds.yaml
//	  - scripts/ambient.yaml
//
//	# scripts/ui-sounds.yaml
//	click: audio/click.wav
//	page: audio/page-turn.mp3
package assets
