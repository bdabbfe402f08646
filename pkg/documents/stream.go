package documents

import (
	"io"

	"github.com/goccy/go-yaml"

	"github.com/uisautomation/assetmigrate/pkg/errors"
)

// Encoder writes documents to a YAML multi-document stream, separating
// consecutive documents with "---". Documents appear in the order they
// are encoded; the stream is append-only.
type Encoder struct {
	w     io.Writer
	count int
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode marshals one document and appends it to the stream.
func (e *Encoder) Encode(doc any) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return errors.WrapParse("yaml", "", err)
	}
	if e.count > 0 {
		if _, err := io.WriteString(e.w, "---\n"); err != nil {
			return errors.WrapIO("write", "document stream", err)
		}
	}
	if _, err := e.w.Write(data); err != nil {
		return errors.WrapIO("write", "document stream", err)
	}
	e.count++
	return nil
}

// Count returns the number of documents written so far.
func (e *Encoder) Count() int {
	return e.count
}

// DecodeAssets reads a YAML document stream and returns the asset
// documents it contains, in stream order. Documents of any other type
// (the trailing report, stray uploads) are skipped, so a full migration
// output file can be fed to the upload driver unfiltered.
func DecodeAssets(r io.Reader) ([]AssetDocument, error) {
	dec := yaml.NewDecoder(r)
	var docs []AssetDocument
	for {
		var doc AssetDocument
		if err := dec.Decode(&doc); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.WrapParse("yaml", "asset stream", err)
		}
		if doc.Type != TypeAsset {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// DecodeResults reads a YAML document stream of upload results, skipping
// any non-upload documents. Used to load a prior run's output for resume
// filtering.
func DecodeResults(r io.Reader) ([]UploadResult, error) {
	dec := yaml.NewDecoder(r)
	var results []UploadResult
	for {
		var res UploadResult
		if err := dec.Decode(&res); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.WrapParse("yaml", "result stream", err)
		}
		if res.Type != TypeUpload {
			continue
		}
		results = append(results, res)
	}
	return results, nil
}
