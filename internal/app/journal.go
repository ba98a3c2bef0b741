package app

import "github.com/ayusman/mudra/internal/session"

// startJournal appends every accepted sentence to the revision journal.
// A cleared sentence empties it.
func (a *App) startJournal() {
	changes, unsubscribe := a.session.Subscribe()
	a.unsubscribe = unsubscribe
	a.journalDone = make(chan struct{})

	go func() {
		defer close(a.journalDone)
		for change := range changes {
			if change.Kind != session.KindSentence {
				continue
			}
			revisions := a.store.Revisions()
			if change.State.Sentence == "" {
				if err := revisions.DeleteAll(); err != nil {
					a.log.Warn().Err(err).Msg("Failed to clear transcript revisions")
				}
				continue
			}
			if _, err := revisions.Append(change.State.Sentence); err != nil {
				a.log.Warn().Err(err).Msg("Failed to journal sentence")
			}
		}
	}()
}
