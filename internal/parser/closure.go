package parser

import (
	"bufio"
	"fmt"
	"io"
	"mime"
	"net/mail"
	"os"
	"regexp"
	"strconv"
	"time"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/roach88/orderreg/internal/model"
)

// actSubjectPattern matches the order reference in a closure email subject,
// e.g. "WOs resolution - ... Pedido  12175150 ...".
var actSubjectPattern = regexp.MustCompile(`(?i)(?:pedido|order|заказ)\s+(\d+)`)

// ClosureParser extracts closure acts from resolution notification emails.
//
// The order id is taken from the Subject header; the closure date is the
// message date with the time component dropped.
type ClosureParser struct{}

// Parse reads the .eml at path and extracts the closure act.
func (ClosureParser) Parse(path string) (*model.ClosureAct, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	msg, err := mail.ReadMessage(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	dec := mime.WordDecoder{CharsetReader: charsetReader}
	subject, err := dec.DecodeHeader(msg.Header.Get("Subject"))
	if err != nil {
		return nil, fmt.Errorf("parse %s: subject: %w", path, err)
	}

	m := actSubjectPattern.FindStringSubmatch(subject)
	if m == nil {
		return nil, fmt.Errorf("parse %s: no order reference in subject %q", path, subject)
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, fmt.Errorf("parse %s: order id %q: %w", path, m[1], err)
	}

	sent, err := msg.Header.Date()
	if err != nil {
		return nil, fmt.Errorf("parse %s: date header: %w", path, err)
	}

	return &model.ClosureAct{
		OrderID: id,
		Date:    time.Date(sent.Year(), sent.Month(), sent.Day(), 0, 0, 0, 0, time.UTC),
	}, nil
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("charset %q: %w", charset, err)
	}
	return enc.NewDecoder().Reader(input), nil
}
