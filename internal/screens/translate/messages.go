package translate

import (
	"github.com/abhisek/trans/internal/store"
	trans "github.com/abhisek/trans/internal/translate"
)

// prefsLoadedMsg carries the last saved preferences, if any.
type prefsLoadedMsg struct {
	prefs *store.Preferences
}

// translatedMsg is the outcome of one translation request. seq ties it to
// the request that produced it so stale results are dropped.
type translatedMsg struct {
	seq    int
	result *trans.Translation
	err    error
}

// favoriteSavedMsg reports the outcome of adding a favorite.
type favoriteSavedMsg struct {
	added bool
	err   error
}
