package lang

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/bethropolis/tidemark/internal/logger"
)

var registry struct {
	sync.RWMutex
	languages     []*Language
	extToLanguage map[string]*Language
}

// Register adds a language to the registry. A later registration of the same
// extension wins.
func Register(lang *Language) {
	registry.Lock()
	defer registry.Unlock()

	if registry.extToLanguage == nil {
		registry.extToLanguage = make(map[string]*Language)
	}
	registry.languages = append(registry.languages, lang)

	for _, ext := range lang.Extensions {
		lowerExt := strings.ToLower(ext)
		if existing, ok := registry.extToLanguage[lowerExt]; ok {
			logger.Warnf("Extension %s already registered to %s, overriding with %s",
				lowerExt, existing.Name, lang.Name)
		}
		registry.extToLanguage[lowerExt] = lang
	}

	logger.Debugf("Registered language: %s with extensions: %v", lang.Name, lang.Extensions)
}

// GetForFile returns the language for a file path, or nil.
func GetForFile(filePath string) *Language {
	registry.RLock()
	defer registry.RUnlock()
	return registry.extToLanguage[strings.ToLower(filepath.Ext(filePath))]
}

// GetByName returns a registered language by name, case-insensitive.
func GetByName(name string) *Language {
	registry.RLock()
	defer registry.RUnlock()
	for _, l := range registry.languages {
		if strings.EqualFold(l.Name, name) {
			return l
		}
	}
	return nil
}

// GetAll returns all registered languages
func GetAll() []*Language {
	registry.RLock()
	defer registry.RUnlock()

	result := make([]*Language, len(registry.languages))
	copy(result, registry.languages)
	return result
}
