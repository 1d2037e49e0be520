package toon

import (
	"strings"
	"testing"
)

var benchDoc = strings.Join([]string{
	"count: 3",
	"users[3 id,name,email,active]:",
	"  1,Alice,alice@example.com,true",
	"  2,Bob,bob@example.com,false",
	"  3,Carol,carol@example.com,true",
	"settings:",
	"  theme: dark",
	"  limits:",
	"    cpu: 2.5",
	"    mem: 4096",
	"tags[4]: go,codec,lines,indent",
	"notes[2]:",
	"  plain text row",
	"  \"quoted, with delimiters|inside\"",
}, "\n")

func BenchmarkScan(b *testing.B) {
	opts := DefaultDecoderOptions()
	for i := 0; i < b.N; i++ {
		if _, err := scan(benchDoc, opts); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	data := []byte(benchDoc)
	b.SetBytes(int64(len(data)))
	for i := 0; i < b.N; i++ {
		if _, err := Decode(data); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	n, err := Decode([]byte(benchDoc))
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Encode(n); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRoundTrip(b *testing.B) {
	data := []byte(benchDoc)
	for i := 0; i < b.N; i++ {
		n, err := Decode(data)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := Encode(n); err != nil {
			b.Fatal(err)
		}
	}
}
