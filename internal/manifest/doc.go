// Package manifest loads and saves package.json manifests.
//
// shiplane owns a single reserved object inside each manifest, stored under
// the "shiplane" key:
//
//	"shiplane": {
//	  "schema": 1,
//	  "reference_commit": "3f2a9c...",
//	  "assets": ["README.md", "docs/*.md"]
//	}
//
// Saving rewrites only "version" and the reserved object so the rest of the
// document keeps its field order and formatting.
package manifest
