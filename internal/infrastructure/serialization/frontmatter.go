package serialization

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	yamlDelimiter = "---"
)

// Document is a markdown file split into its YAML header and body
type Document struct {
	Header []byte
	Body   string
}

// Split separates the YAML header from the body. A file without a leading
// delimiter is all body.
func Split(data []byte) (*Document, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	doc := &Document{}

	if !scanner.Scan() {
		return doc, nil
	}

	if strings.TrimSpace(scanner.Text()) != yamlDelimiter {
		doc.Body = strings.TrimSpace(string(data))
		return doc, nil
	}

	var header []string
	closed := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == yamlDelimiter {
			closed = true
			break
		}
		header = append(header, line)
	}
	if !closed {
		return nil, fmt.Errorf("unterminated frontmatter")
	}
	doc.Header = []byte(strings.Join(header, "\n"))

	var body []string
	for scanner.Scan() {
		body = append(body, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading document: %w", err)
	}
	doc.Body = strings.TrimSpace(strings.Join(body, "\n"))

	return doc, nil
}

// Decode parses data, unmarshals the header into out and returns the body
func Decode(data []byte, out interface{}) (string, error) {
	doc, err := Split(data)
	if err != nil {
		return "", err
	}

	if len(bytes.TrimSpace(doc.Header)) > 0 {
		if err := yaml.Unmarshal(doc.Header, out); err != nil {
			return "", fmt.Errorf("failed to parse YAML frontmatter: %w", err)
		}
	}

	return doc.Body, nil
}

// Encode writes header as YAML frontmatter followed by body
func Encode(header interface{}, body string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(yamlDelimiter)
	buf.WriteString("\n")

	data, err := yaml.Marshal(header)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal frontmatter: %w", err)
	}
	buf.Write(data)

	buf.WriteString(yamlDelimiter)
	buf.WriteString("\n")

	if body != "" {
		buf.WriteString(body)
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}
