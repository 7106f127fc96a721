package bridge

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFloats(t *testing.T) {
	src := []float32{1, 2, 3}
	dst := CopyFloats(src)
	require.Equal(t, src, dst)

	dst[0] = 42
	assert.Equal(t, float32(1), src[0], "copy must not share memory")

	empty := CopyFloats(nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestParseEncoding(t *testing.T) {
	cases := map[string]Encoding{
		"":     EncodingF32,
		"f32":  EncodingF32,
		"F16":  EncodingF16,
		"bf16": EncodingBF16,
	}
	for in, want := range cases {
		got, err := ParseEncoding(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseEncoding("q8_0")
	assert.Error(t, err)
}

func TestEncodeDecode(t *testing.T) {
	// Werte, die in allen drei Kodierungen exakt darstellbar sind
	values := []float32{0, 1, -2.5, 0.5, 64, -0.125}

	for _, e := range []Encoding{EncodingF32, EncodingF16, EncodingBF16} {
		t.Run(string(e), func(t *testing.T) {
			b := Encode(e, values)
			assert.Len(t, b, len(values)*e.ElementSize())

			got, err := Decode(e, b)
			require.NoError(t, err)
			if diff := cmp.Diff(values, got); diff != "" {
				t.Errorf("decoded mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeF32LittleEndian(t *testing.T) {
	// 1.0 = 0x3f800000
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3f}, Encode(EncodingF32, []float32{1}))
}

func TestDecodeEmpty(t *testing.T) {
	for _, e := range []Encoding{EncodingF32, EncodingF16, EncodingBF16} {
		got, err := Decode(e, nil)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.Empty(t, Encode(e, nil))
	}
}

func TestDecodeShortBuffer(t *testing.T) {
	_, err := Decode(EncodingF32, []byte{1, 2, 3})
	require.ErrorIs(t, err, ErrShortBuffer)

	_, err = Decode(EncodingF16, []byte{1})
	require.ErrorIs(t, err, ErrShortBuffer)
}
