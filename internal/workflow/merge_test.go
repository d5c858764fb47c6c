package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talent-profiler/internal/types"
)

func TestMerge_SentinelsContributeNothing(t *testing.T) {
	education := types.EducationLevel{Tier: types.NoDegree}
	leadership := types.NewLeadership(types.NoLeadership, []string{"없음"})

	profile := Merge(types.NoDegree, &education, &leadership, nil, nil)

	assert.Equal(t, 0, profile.Len())
}

func TestMerge_NonSentinelsOneEntryEach(t *testing.T) {
	education := types.EducationLevel{Tier: "상위권대학교"}
	leadership := types.NewLeadership(types.LeadershipLabel, []string{"테크 리드", "팀장"})

	profile := Merge("서울대학교", &education, &leadership, nil, nil)

	assert.Equal(t, []string{"상위권대학교", types.LeadershipLabel}, profile.Keys())
	tier, _ := profile.Get("상위권대학교")
	assert.Equal(t, "서울대학교", tier)
	reasons, _ := profile.Get(types.LeadershipLabel)
	assert.Equal(t, []string{"테크 리드", "팀장"}, reasons)
}

func TestMerge_CompanyScaleAccumulates(t *testing.T) {
	scale := types.CompanyScaleFindings{Items: []types.CompanyScaleItem{
		{Category: "대규모 회사 경험", Reasons: []string{"삼성전자"}},
		{Category: "성장기스타트업 경험", Reasons: []string{"토스 재직 시 조직 2배 확장"}},
		{Category: "대규모 회사 경험", Reasons: []string{"SKT", "네이버"}},
	}}

	profile := Merge("", nil, nil, &scale, nil)

	assert.Equal(t, []string{"대규모 회사 경험", "성장기스타트업 경험"}, profile.Keys())
	large, _ := profile.Get("대규모 회사 경험")
	assert.Equal(t, []string{"삼성전자", "SKT", "네이버"}, large)
}

func TestMerge_ExperienceLastWriteWins(t *testing.T) {
	experience := types.ExperienceFindings{Items: []types.ExperienceItem{
		{Tag: "IPO", Reason: "밀리의 서재 상장"},
		{Tag: "M&A 경험", Reason: "지니뮤직에 매각"},
		{Tag: "IPO", Reason: "카카오뱅크 상장 준비"},
	}}

	profile := Merge("", nil, nil, nil, &experience)

	assert.Equal(t, []string{"IPO", "M&A 경험"}, profile.Keys())
	ipo, _ := profile.Get("IPO")
	assert.Equal(t, "카카오뱅크 상장 준비", ipo)
}

func TestMerge_InsertionOrderAndJSON(t *testing.T) {
	education := types.EducationLevel{Tier: "중위권대학교"}
	leadership := types.NewLeadership(types.LeadershipLabel, nil)
	scale := types.CompanyScaleFindings{Items: []types.CompanyScaleItem{{Category: "성장기스타트업 경험", Reasons: []string{"시리즈 B 투자 유치"}}}}
	experience := types.ExperienceFindings{Items: []types.ExperienceItem{{Tag: "대용량데이터처리경험", Reason: "하이퍼클로바 개발"}}}

	profile := Merge("한양대학교", &education, &leadership, &scale, &experience)

	data, err := profile.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t,
		`{"중위권대학교":"한양대학교","리더쉽":[],"성장기스타트업 경험":["시리즈 B 투자 유치"],"대용량데이터처리경험":"하이퍼클로바 개발"}`,
		string(data))
}

func TestMerge_AllNil(t *testing.T) {
	profile := Merge("서울대학교", nil, nil, nil, nil)

	data, err := profile.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestMerge_CrossNodeCollisions(t *testing.T) {
	education := types.EducationLevel{Tier: "상위권대학교"}
	leadership := types.NewLeadership(types.LeadershipLabel, []string{"팀장"})
	scale := types.CompanyScaleFindings{Items: []types.CompanyScaleItem{
		{Category: "상위권대학교", Reasons: []string{"삼성전자"}},
		{Category: types.LeadershipLabel, Reasons: []string{"조직 리딩"}},
		{Category: "대규모 회사 경험", Reasons: []string{"네이버"}},
	}}
	experience := types.ExperienceFindings{Items: []types.ExperienceItem{
		{Tag: "대규모 회사 경험", Reason: "커머스 플랫폼"},
	}}

	profile := Merge("서울대학교", &education, &leadership, &scale, &experience)

	assert.Equal(t, []string{"상위권대학교", types.LeadershipLabel, "대규모 회사 경험"}, profile.Keys())

	tier, _ := profile.Get("상위권대학교")
	assert.Equal(t, []string{"삼성전자"}, tier)
	reasons, _ := profile.Get(types.LeadershipLabel)
	assert.Equal(t, []string{"팀장", "조직 리딩"}, reasons)
	size, _ := profile.Get("대규모 회사 경험")
	assert.Equal(t, "커머스 플랫폼", size)

	out, err := profile.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"상위권대학교":["삼성전자"],"리더쉽":["팀장","조직 리딩"],"대규모 회사 경험":"커머스 플랫폼"}`, string(out))
}
