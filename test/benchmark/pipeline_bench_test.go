package benchmark

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/eddy/internal/indexer/chunker"
	"github.com/Adithya-Monish-Kumar-K/eddy/internal/indexer/keymap"
	"github.com/Adithya-Monish-Kumar-K/eddy/internal/indexer/sanitizer"
)

var sampleTexts = map[string]string{
	"short": "# Deploying\nRun `make deploy` and wait for the rollout!",
	"medium": `## On-call runbook
        When the pager fires, check the dashboard first. Is the error rate above
        the SLO? Roll back the last release, then open an incident channel and
        post a summary. Escalate to the platform team after fifteen minutes.`,
	"long": strings.Repeat(`Service owners keep a README, a runbook and an architecture note
        for every component. The runbook lists alerts, dashboards and the steps to
        mitigate each failure mode. "Known issues" are tracked in the tracker, not
        in the doc itself. Questions? Ask in the team channel.
`, 40),
}

func BenchmarkSanitize(b *testing.B) {
	for name, text := range sampleTexts {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				_ = sanitizer.Sanitize(text)
			}
		})
	}
}

func BenchmarkChunks(b *testing.B) {
	c := chunker.New(chunker.DefaultMaxChars, chunker.DefaultMaxChunks)
	text := sanitizer.Sanitize(sampleTexts["long"])
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	for i := 0; i < b.N; i++ {
		_ = c.Chunks(text)
	}
}

func BenchmarkInvert(b *testing.B) {
	for _, docs := range []int{10, 100, 1000} {
		forward := make(keymap.ForwardMap, 0, docs)
		for d := 0; d < docs; d++ {
			kws := make(keymap.Keywords, 0, 20)
			for k := 0; k < 20; k++ {
				kws = append(kws, fmt.Sprintf("keyword-%d", (d+k)%200))
			}
			forward = append(forward, keymap.Entry{Path: fmt.Sprintf("docs/%d.md", d), Keywords: kws})
		}
		b.Run(fmt.Sprintf("docs_%d", docs), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = keymap.Invert(forward)
			}
		})
	}
}
