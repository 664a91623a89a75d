package chat

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/zhubert/scrollback/internal/content"
)

var historyAuthors = []string{"ana", "bo", LocalAuthor}

var historyBodies = []string{
	"morning! did the deploy go out?",
	"yes, rolled out to all regions around 9",
	"nice. any alerts overnight?",
	"one flaky health check, nothing real",
	"can you paste the query you used?",
	"```sql\nSELECT id, created_at\nFROM events\nWHERE kind = 'resize'\nORDER BY created_at DESC\nLIMIT 20;\n```",
	"thanks, that's the one",
	"I think the scroll jump happens when the composer grows while a page is loading",
	"we should hold the apply until the resize settles",
	"```go\nif !flags.IsEmpty() {\n\tdeferApply(next)\n\treturn\n}\n```",
	"lunch?",
	"10 minutes",
	"pushed a fix, mind taking a look when you get a chance? it touches the pagination guard and the send path, so I'd like a second pair of eyes before it lands",
	"looks good, one nit about the log level",
	"merged 🎉",
	"heads up: staging is down for maintenance until 3",
	"ok",
	"reminder that the retro is tomorrow",
}

// generateHistory returns n items ending shortly before now, oldest first.
func generateHistory(rng *rand.Rand, now time.Time, n int) []content.Item {
	items := make([]content.Item, 0, n)
	t := now.Add(-5 * time.Minute)
	for range n {
		author := historyAuthors[rng.IntN(len(historyAuthors))]
		status := content.Status("")
		if author == LocalAuthor {
			status = content.StatusDelivered
		}
		items = append(items, content.Item{
			ID:        uuid.NewString(),
			Author:    author,
			Body:      historyBodies[rng.IntN(len(historyBodies))],
			Timestamp: t,
			Outgoing:  author == LocalAuthor,
			Status:    status,
		})
		t = t.Add(-time.Duration(5+rng.IntN(175)) * time.Minute)
	}
	slices.Reverse(items)
	return items
}
