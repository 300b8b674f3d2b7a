package graphgen

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/kgraph/pkg/errors"
)

// Document is one source text handed to the model.
type Document struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// SampleDocuments returns four short documents that reference each other.
func SampleDocuments() []Document {
	return []Document{
		{
			ID:      "doc1",
			Content: "This is the content of document one. It discusses data privacy and compliance.",
		},
		{
			ID:      "doc2",
			Content: "Document two focuses on software development practices and coding standards. It references Document one for compliance guidelines.",
		},
		{
			ID:      "doc3",
			Content: "The third document is about project management methodologies and includes references to best practices in the industry.",
		},
		{
			ID:      "doc4",
			Content: "Document four provides an overview of cybersecurity threats and mitigation strategies, highlighting the importance of data privacy as discussed in Document 1.",
		},
	}
}

// ReadDocuments decodes a JSON array of documents.
func ReadDocuments(r io.Reader) ([]Document, error) {
	var docs []Document
	if err := json.NewDecoder(r).Decode(&docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode documents")
	}
	if err := ValidateDocuments(docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// ReadDocumentsFile reads a JSON array of documents from path.
func ReadDocumentsFile(path string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "documents file %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return ReadDocuments(f)
}

// ValidateDocuments requires at least one document, each with an ID and
// non-empty content.
func ValidateDocuments(docs []Document) error {
	if len(docs) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no documents given")
	}
	for i, d := range docs {
		if err := errors.ValidateID("document id", d.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "document %d", i)
		}
		if d.Content == "" {
			return errors.New(errors.ErrCodeInvalidInput, "document %q has no content", d.ID)
		}
	}
	return nil
}
