package swiftdsv

import (
	stdcsv "encoding/csv"
	"strings"
	"testing"
)

func benchmarkData() string {
	return strings.Repeat("xxxxxxxxxxxxxxxx,yyyyyyyyyyyyyyyy,\"zzzz,zzzz\",wwwwwwwwwwwwwwwwwwwwwwwwwwwwwwww,\"vv\"\"vv\"\r\n"+
		",,zzzz,\"multi\r\nline\",vvvvvvvvvvvvvvvvvvvvvvvvvvvvvvvvvvvvvvvvvvvvvvvv\r\n", 64)
}

func BenchmarkDecoder(b *testing.B) {
	data := benchmarkData()
	d := MustNewDecoder()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	for i := 0; i < b.N; i++ {
		if _, err := d.Decode(data); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncodingCSV(b *testing.B) {
	data := benchmarkData()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	for i := 0; i < b.N; i++ {
		cr := stdcsv.NewReader(strings.NewReader(data))
		cr.FieldsPerRecord = -1
		if _, err := cr.ReadAll(); err != nil {
			b.Fatal(err)
		}
	}
}
