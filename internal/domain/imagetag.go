package domain

import (
	"regexp"
	"strings"
)

const (
	imageTagOpen  = "[[image:"
	imageTagClose = "]]"
)

type TokenKind int

const (
	TokenText TokenKind = iota
	TokenImage
)

type ImageRef struct {
	Path    string
	Caption string
}

type Token struct {
	Kind  TokenKind
	Text  string
	Image ImageRef
}

// LexImageTags scans text once and yields text runs and image tags in order.
// An unterminated tag is kept as literal text. A tag with an empty path is
// consumed without producing an image.
func LexImageTags(text string) []Token {
	var tokens []Token
	rest := text

	for rest != "" {
		start := strings.Index(rest, imageTagOpen)
		if start < 0 {
			tokens = append(tokens, Token{Kind: TokenText, Text: rest})
			break
		}

		body := rest[start+len(imageTagOpen):]
		end := strings.Index(body, imageTagClose)
		if end < 0 {
			tokens = append(tokens, Token{Kind: TokenText, Text: rest})
			break
		}

		if start > 0 {
			tokens = append(tokens, Token{Kind: TokenText, Text: rest[:start]})
		}

		path, caption, _ := strings.Cut(body[:end], "|")
		path = strings.TrimSpace(path)
		if path != "" {
			tokens = append(tokens, Token{
				Kind:  TokenImage,
				Image: ImageRef{Path: path, Caption: strings.TrimSpace(caption)},
			})
		}

		rest = body[end+len(imageTagClose):]
	}

	return tokens
}

type WorkerOutput struct {
	Text   string
	Images []ImageRef
}

// ParseWorkerOutput removes image tags from text, collapses blank-line runs and
// trims the remaining prose.
func ParseWorkerOutput(text string) WorkerOutput {
	var (
		b      strings.Builder
		images []ImageRef
	)
	for _, tok := range LexImageTags(text) {
		switch tok.Kind {
		case TokenText:
			b.WriteString(tok.Text)
		case TokenImage:
			images = append(images, tok.Image)
		}
	}

	return WorkerOutput{
		Text:   strings.TrimSpace(CollapseNewlines(b.String())),
		Images: images,
	}
}

var newlineRun = regexp.MustCompile(`\n{3,}`)

func CollapseNewlines(s string) string {
	return newlineRun.ReplaceAllString(s, "\n\n")
}
