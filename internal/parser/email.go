package parser

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/roach88/orderreg/internal/model"
)

// bodyDateLayout is the date form used inside email bodies (dd/mm/yyyy).
const bodyDateLayout = "02/01/2006"

// Field captions, Russian first, English fallback.
var (
	anchorsOrderID     = []string{"Заказ на покупку", "Purchase order"}
	anchorsDate        = []string{"Дата", "Date"}
	anchorsWarehouse   = []string{"Место назначения", "Destination"}
	anchorsDescription = []string{"Описание", "Description"}
)

// EmailParser extracts orders from purchase-order notification emails.
type EmailParser struct{}

// Parse reads the .eml at path and extracts an order from its HTML body.
func (EmailParser) Parse(path string) (*model.Order, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	msg, err := mail.ReadMessage(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	content, err := messageContent(msg)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	rawID, err := fieldValue(doc, anchorsOrderID)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse %s: order id %q: %w", path, rawID, err)
	}

	rawDate, err := fieldValue(doc, anchorsDate)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	date, err := time.Parse(bodyDateLayout, rawDate)
	if err != nil {
		return nil, fmt.Errorf("parse %s: order date %q: %w", path, rawDate, err)
	}

	rawWarehouse, err := fieldValue(doc, anchorsWarehouse)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	// The destination cell reads "<warehouse id> / <site name>".
	warehouse, err := strconv.Atoi(strings.TrimSpace(strings.SplitN(rawWarehouse, "/", 2)[0]))
	if err != nil {
		return nil, fmt.Errorf("parse %s: warehouse %q: %w", path, rawWarehouse, err)
	}

	description, err := fieldValue(doc, anchorsDescription)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &model.Order{
		ID:          id,
		WarehouseID: warehouse,
		Description: strings.ToUpper(strings.TrimSpace(description)),
		Status:      model.StatusNew,
		Date:        date,
	}, nil
}

// messageContent returns the message's HTML body decoded to UTF-8, falling
// back to the first readable text part when no HTML part exists.
func messageContent(msg *mail.Message) (string, error) {
	return partContent(msg.Body,
		msg.Header.Get("Content-Type"),
		msg.Header.Get("Content-Transfer-Encoding"))
}

// partContent decodes one MIME part, recursing into multipart containers.
func partContent(r io.Reader, contentType, transferEncoding string) (string, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		// No or malformed Content-Type: treat the body as plain text.
		mediaType = "text/plain"
	}

	if !strings.HasPrefix(mediaType, "multipart/") {
		return decodeText(r, transferEncoding, params["charset"])
	}

	mr := multipart.NewReader(r, params["boundary"])
	fallback := ""
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read multipart body: %w", err)
		}

		content, err := partContent(part,
			part.Header.Get("Content-Type"),
			part.Header.Get("Content-Transfer-Encoding"))
		if err != nil {
			continue
		}

		partType, _, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if partType == "text/html" {
			return content, nil
		}
		if fallback == "" {
			fallback = content
		}
	}

	if fallback == "" {
		return "", errors.New("no readable body part")
	}
	return fallback, nil
}

// decodeText undoes the transfer encoding and transcodes the charset to UTF-8.
func decodeText(r io.Reader, transferEncoding, charset string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(transferEncoding)) {
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	}

	if charset != "" && !strings.EqualFold(charset, "utf-8") {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return "", fmt.Errorf("charset %q: %w", charset, err)
		}
		r = transform.NewReader(r, enc.NewDecoder())
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read body part: %w", err)
	}
	return string(data), nil
}

// fieldValue finds the caption cell matching one of the anchors and returns
// the first non-empty paragraph from the table rows that follow it.
func fieldValue(doc *html.Node, anchors []string) (string, error) {
	for _, anchor := range anchors {
		if v := anchorValue(doc, anchor); v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("field %q not found in body", anchors[0])
}

func anchorValue(doc *html.Node, anchor string) string {
	caption := findParagraph(doc, func(text string) bool { return text == anchor })
	if caption == nil {
		return ""
	}

	row := ancestorRow(caption)
	if row == nil {
		return ""
	}

	for sib := row.NextSibling; sib != nil; sib = sib.NextSibling {
		if sib.Type != html.ElementNode || sib.DataAtom != atom.Tr {
			continue
		}
		if p := findParagraph(sib, func(text string) bool { return text != "" }); p != nil {
			return nodeText(p)
		}
	}
	return ""
}

// findParagraph walks the subtree for the first <p> whose trimmed text
// satisfies match.
func findParagraph(n *html.Node, match func(string) bool) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.P && match(nodeText(n)) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if p := findParagraph(c, match); p != nil {
			return p
		}
	}
	return nil
}

func ancestorRow(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == atom.Tr {
			return p
		}
	}
	return nil
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
