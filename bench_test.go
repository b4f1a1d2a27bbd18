// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jflat_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/creachadair/jflat"
)

// benchInput constructs a document of n records.
func benchInput(n int) []byte {
	var buf bytes.Buffer
	buf.WriteString(`{"method":"batch","params":{"records":[`)
	for i := range n {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, `{"id":%d,"name":"record\t%d","vals":[%d.5,%d,true,null],"ok":true}`, i, i, i, -i)
	}
	buf.WriteString(`]},"id":"last"}`)
	return buf.Bytes()
}

func BenchmarkTokenize(b *testing.B) {
	input := benchInput(500)
	b.Logf("Benchmark input: %d bytes", len(input))

	b.Run("Decoder", func(b *testing.B) {
		for b.Loop() {
			dec := json.NewDecoder(bytes.NewReader(input))
			for {
				_, err := dec.Token()
				if err == io.EOF {
					break
				} else if err != nil {
					b.Fatalf("Unexpected error: %v", err)
				}
			}
		}
	})

	b.Run("Tokenize", func(b *testing.B) {
		for b.Loop() {
			s, err := jflat.Tokenize(input, nil)
			if err != nil {
				b.Fatalf("Unexpected error: %v", err)
			}
			s.Release()
		}
	})

	b.Run("FindKey", func(b *testing.B) {
		s, err := jflat.Tokenize(input, nil)
		if err != nil {
			b.Fatalf("Unexpected error: %v", err)
		}
		defer s.Release()
		for b.Loop() {
			var id int
			if err := s.DecodeKey("ID", &id); err != nil {
				b.Fatalf("DecodeKey: %v", err)
			}
		}
	})
}

func BenchmarkWriter(b *testing.B) {
	store := make([]byte, 0, 1<<16)
	vals := []float64{1.5, 2.25, -3}
	for b.Loop() {
		buf := jflat.NewBuffer(store)
		w := jflat.NewWriter(buf)
		root, err := w.Create()
		if err != nil {
			b.Fatalf("Create: %v", err)
		}
		rows, _ := root.ArrayObject("rows")
		for i := range 100 {
			if i > 0 {
				rows.Next()
			}
			rows.Number("id", i)
			rows.String("name", "record")
			rows.Numbers("vals", vals)
		}
		if err := root.Close(); err != nil {
			b.Fatalf("Close: %v", err)
		}
	}
}
