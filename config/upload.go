package config

type UploadConfig struct {
	AllowedMimeTypes []string
	MaxSizeMB        int64
	MinWidth         int // Минимальная ширина
	MaxWidth         int // Максимальная ширина (0 - без лимита)
	MinHeight        int // Минимальная высота
	MaxHeight        int // Максимальная высота (0 - без лимита)
	PathPrefix       string
}

var imageMimeTypes = []string{"image/jpeg", "image/png", "image/gif"}

// UploadContexts - правила загрузки по ключу entities.Schema.UploadContext.
var UploadContexts = map[string]UploadConfig{
	"gallery": {
		AllowedMimeTypes: imageMimeTypes,
		MaxSizeMB:        20,
		MinWidth:         200,
		MinHeight:        200,
		PathPrefix:       "gallery",
	},
	"activity": {
		AllowedMimeTypes: imageMimeTypes,
		MaxSizeMB:        20,
		MinWidth:         200,
		MinHeight:        200,
		PathPrefix:       "activities",
	},
	"article": {
		AllowedMimeTypes: imageMimeTypes,
		MaxSizeMB:        20,
		MinWidth:         200,
		MinHeight:        200,
		PathPrefix:       "articles",
	},
}
