//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_InsertionOrder(t *testing.T) {
	p := NewProfile()
	p.SetString("상위권대학교", "연세대학교")
	p.SetList(LeadershipLabel, []string{"테크 리드"})
	p.SetString("IPO 경험", "밀리의 서재 상장")

	assert.Equal(t, []string{"상위권대학교", LeadershipLabel, "IPO 경험"}, p.Keys())

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, `{"상위권대학교":"연세대학교","리더쉽":["테크 리드"],"IPO 경험":"밀리의 서재 상장"}`, string(data))
}

func TestProfile_OverwriteKeepsPosition(t *testing.T) {
	p := NewProfile()
	p.SetString("a", "1")
	p.SetString("b", "2")
	p.SetString("a", "3")

	assert.Equal(t, []string{"a", "b"}, p.Keys())
	v, ok := p.Get("a")
	require.True(t, ok)
	assert.Equal(t, "3", v)
}

func TestProfile_AppendList(t *testing.T) {
	p := NewProfile()
	p.AppendList("대규모 회사 경험", []string{"삼성전자"})
	p.AppendList("대규모 회사 경험", []string{"SKT", "네이버"})

	v, _ := p.Get("대규모 회사 경험")
	assert.Equal(t, []string{"삼성전자", "SKT", "네이버"}, v)
	assert.Equal(t, 1, p.Len())
}

func TestProfile_ZeroValue(t *testing.T) {
	var p Profile
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	p.SetString("k", "v")
	assert.Equal(t, 1, p.Len())
}

func TestProfile_UnmarshalKeepsOrder(t *testing.T) {
	var p Profile
	require.NoError(t, json.Unmarshal([]byte(`{"z":"1","a":["x","y"]}`), &p))

	assert.Equal(t, []string{"z", "a"}, p.Keys())
	v, _ := p.Get("a")
	assert.Equal(t, []string{"x", "y"}, v)
}

func TestProfile_NoHTMLEscaping(t *testing.T) {
	p := NewProfile()
	p.SetString("M&A 경험", "<인수>")

	data, err := p.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"M&A 경험":"<인수>"}`, string(data))
}
