package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeZip(t *testing.T) {
	assert.Equal(t, "10001", NormalizeZip("10001"))
	assert.Equal(t, "10001", NormalizeZip(" 10001 "))
	assert.Equal(t, "10001", NormalizeZip("10001-1234"), "Zip+4 suffix is dropped")
	assert.Equal(t, "10001", NormalizeZip("1 0 0 0 1"))
	assert.Equal(t, "00501", NormalizeZip("501"), "short zips are left-padded")
	assert.Equal(t, "00007", NormalizeZip("7"))
}

func TestNormalizeZip_NoDigits(t *testing.T) {
	assert.Equal(t, "", NormalizeZip(""))
	assert.Equal(t, "", NormalizeZip("   "))
	assert.Equal(t, "", NormalizeZip("N/A"))
}

func TestNormalizeZip_Idempotent(t *testing.T) {
	for _, raw := range []string{"10001-1234", "501", "abc123", "11201"} {
		once := NormalizeZip(raw)
		assert.Equal(t, once, NormalizeZip(once), "raw=%q", raw)
	}
}
