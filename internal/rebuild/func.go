package rebuild

import (
	"context"
	"time"

	"github.com/ramate-io/roadline-go/internal/githubsource"
	"github.com/ramate-io/roadline-go/internal/markdown"
	"github.com/ramate-io/roadline-go/internal/notify"
	"github.com/ramate-io/roadline-go/internal/roadline"
	"github.com/ramate-io/roadline-go/internal/storage"
)

// NewGitHubRebuildFunc builds the RebuildFunc shared by the in-process
// scheduler embedded in cmd/server and the distributed workers run by
// cmd/worker: re-fetch the source, skip the rest on a 304, otherwise parse,
// validate the tasks build into a Roadline, cache the document, and
// publish a notification.
func NewGitHubRebuildFunc(ghClient *githubsource.Client, ghCache *githubsource.ETagCache, documents storage.DocumentRepository, publisher notify.Publisher) RebuildFunc {
	return func(sourceKey string) error {
		ctx := context.Background()

		url, err := githubsource.ParseSourceKey(sourceKey)
		if err != nil {
			return err
		}

		content, err := githubsource.FetchDocument(ctx, ghClient, ghCache, url)
		if err != nil {
			if githubsource.IsNotModified(err) {
				return nil
			}
			return err
		}

		tasks, err := markdown.NewParser().ParseTasks(content)
		if err != nil {
			return err
		}

		builder := roadline.NewBuilder()
		if err := builder.AddTasks(tasks); err != nil {
			return err
		}
		if _, err := builder.Build(); err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := documents.Upsert(ctx, &storage.Document{
			SourceKey: sourceKey,
			Content:   content,
			TaskCount: len(tasks),
			FetchedAt: now,
			RebuiltAt: now,
		}); err != nil {
			return err
		}

		return publisher.Publish(notify.Event{
			SourceURL: sourceKey,
			TaskCount: len(tasks),
			RebuiltAt: now.Format(time.RFC3339),
		})
	}
}
