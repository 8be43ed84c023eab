//go:build bench
// +build bench

package codec

import (
	"strings"
	"testing"

	"msgwire/message"
)

func benchMessages() []struct {
	name string
	msg  *message.Msg
} {
	users := make([]string, 10)
	for i := range users {
		users[i] = "user" + strings.Repeat("0", i)
	}
	return []struct {
		name string
		msg  *message.Msg
	}{
		{name: "small", msg: &message.Msg{Body: "Performance test message with some content", FromID: "perf_test", ID: "perf_001", ToIDs: []string{"user1", "user2", "user3", "user4"}, Type: "performance"}},
		{name: "1KB", msg: &message.Msg{Body: strings.Repeat("x", 1000), FromID: "perf_test", ID: "perf123", ToIDs: users, Type: "performance"}},
		{name: "64KB", msg: &message.Msg{Body: strings.Repeat("x", 64<<10), FromID: "perf_test", ID: "perf123", ToIDs: users, Type: "performance"}},
	}
}

func BenchmarkMarshal(b *testing.B) {
	for _, bm := range benchMessages() {
		b.Run(bm.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := Marshal(bm.msg); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkAppend(b *testing.B) {
	for _, bm := range benchMessages() {
		b.Run(bm.name, func(b *testing.B) {
			b.ReportAllocs()
			var buf []byte
			for i := 0; i < b.N; i++ {
				var err error
				if buf, err = Append(buf[:0], bm.msg); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkUnmarshal(b *testing.B) {
	for _, bm := range benchMessages() {
		data, err := Marshal(bm.msg)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(bm.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			for i := 0; i < b.N; i++ {
				if _, err := Unmarshal(data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// JSON and MessagePack against the binary format, through the Codec interface.
func BenchmarkCodecs(b *testing.B) {
	msg := benchMessages()[0].msg
	for _, ct := range []CodecType{CodecTypeBinary, CodecTypeJSON, CodecTypeMsgPack} {
		cdc := GetCodec(ct)
		b.Run(ct.String(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				data, err := cdc.Encode(msg)
				if err != nil {
					b.Fatal(err)
				}
				var out message.Msg
				if err := cdc.Decode(data, &out); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
