package utils

import (
	"bytes"
	"fmt"
	"regexp"
	"runtime"
	"strings"

	"github.com/speps/go-hashids/v2"
)

const orderAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenOrderNumber encodes a snowflake id into a short public order number.
func GenOrderNumber(salt string, id int64) (string, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 10
	hd.Alphabet = orderAlphabet
	h, err := hashids.NewWithData(hd)
	if err != nil {
		return "", err
	}
	e, err := h.EncodeInt64([]int64{id})
	if err != nil {
		return "", err
	}
	return "PMX-" + e, nil
}

// DecodeOrderNumber reverses GenOrderNumber.
func DecodeOrderNumber(salt, number string) (int64, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 10
	hd.Alphabet = orderAlphabet
	h, err := hashids.NewWithData(hd)
	if err != nil {
		return 0, err
	}
	ids, err := h.DecodeInt64WithError(strings.TrimPrefix(number, "PMX-"))
	if err != nil {
		return 0, err
	}
	if len(ids) != 1 {
		return 0, fmt.Errorf("invalid order number %q", number)
	}
	return ids[0], nil
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases text and collapses every non alphanumeric run into a single dash.
func Slugify(text string) string {
	s := slugInvalid.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), "-")
	return strings.Trim(s, "-")
}

func PanicTrace(err interface{}) string {
	buf := new(bytes.Buffer)
	fmt.Fprintf(buf, "%v\n", err)
	for i := 2; ; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fmt.Fprintf(buf, "%s:%d (0x%x)\n", file, line, pc)
	}
	return buf.String()
}
