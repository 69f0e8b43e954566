package resume

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/content"
)

func TestWrite(t *testing.T) {
	t.Parallel()

	t.Run("bundled portfolio", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, Write(&buf, content.Default()))
		out := buf.String()

		require.True(t, strings.HasPrefix(out, "# Anushka Bhandari"))
		for _, want := range []string{
			"**Backend Systems Specialist & Infrastructure Engineer**",
			"[bhandaanu123@gmail.com](mailto:bhandaanu123@gmail.com)",
			"[GitHub](https://github.com/Anushka)",
			"## Where I've Built Things",
			"### Software Engineer, Native Bridge",
			"**[Security]** TCP Proxy Gateway",
			"```mermaid",
			"Focus Areas",
			"## Things I've Shipped",
			"[BridgeLink](https://nativebridge.io/dashboard/bridgelink)",
			"**DaanGo Live:**",
			"## Tech Arsenal",
			"**Backend & Cloud:** FastAPI, Docker",
			"## Milestones",
			"*Designed & built by Anushka Bhandari*",
		} {
			require.Contains(t, out, want)
		}
	})

	t.Run("minimal portfolio", func(t *testing.T) {
		t.Parallel()

		p := &content.Portfolio{
			Profile:  content.Profile{Name: "Zach", Email: "zach@example.com"},
			Sections: []content.Section{{ID: "home"}},
		}
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, p))
		out := buf.String()

		require.Contains(t, out, "# Zach")
		require.NotContains(t, out, "LinkedIn")
		require.NotContains(t, out, "##")
		require.NotContains(t, out, "mermaid")
	})
}
