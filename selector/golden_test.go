package selector

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arturoeanton/go-markup/treesink"
)

// golden-fixture style test, grounded on the pack's use of yaml.v3 for
// declarative test tables (uber-research-last-diff-analyzer,
// livetemplate-livetemplate). Each case names an HTML fragment, a
// selector, and the expected match count, kept in one readable block
// instead of a Go literal per case.
const goldenFixtures = `
- name: class and id compound
  html: '<div class="title"><p id="x">hi</p></div>'
  selector: "div.title p#x"
  want: 1
- name: attribute substring match
  html: '<a href="https://example.com/path">x</a>'
  selector: 'a[href*="example"]'
  want: 1
- name: only child structural pseudo
  html: '<ul><li>solo</li></ul><ul><li>a</li><li>b</li></ul>'
  selector: "li:only-child"
  want: 1
`

type goldenCase struct {
	Name     string `yaml:"name"`
	HTML     string `yaml:"html"`
	Selector string `yaml:"selector"`
	Want     int    `yaml:"want"`
}

func TestSelectGoldenFixtures(t *testing.T) {
	var cases []goldenCase
	require.NoError(t, yaml.Unmarshal([]byte(goldenFixtures), &cases))
	require.NotEmpty(t, cases)

	for _, tc := range cases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			tree, root, err := treesink.ParseHTML(tc.HTML)
			require.NoError(t, err)
			seq, err := Select(tree, root, tc.Selector, nil, nil)
			require.NoError(t, err)
			require.Len(t, Collect(seq), tc.Want)
		})
	}
}
