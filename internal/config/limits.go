package config

const (
	// MaxComponentNameLength is the maximum length for component names.
	// Limited to 100 to fit in PostgreSQL VARCHAR(100) and provide
	// reasonable UX (names should be short and descriptive).
	MaxComponentNameLength = 100

	// MaxComponentContentLength is the maximum length for component content.
	// 5000 characters keeps a single fragment well under typical model
	// system-prompt budgets even when all four slots are filled.
	MaxComponentContentLength = 5000

	// MaxDescriptionLength is the maximum length for component and preset
	// descriptions. Descriptions are optional and display-only.
	MaxDescriptionLength = 500

	// MaxPresetNameLength is the maximum length for preset names.
	// Same as component names for consistency.
	MaxPresetNameLength = 100

	// MaxTagLength is the maximum length for a single component tag.
	MaxTagLength = 50

	// MaxTagsPerComponent caps the number of tags on one component.
	MaxTagsPerComponent = 20
)
