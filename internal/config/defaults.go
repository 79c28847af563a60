package config

const (
	defaultClipsDir           = "clips"
	defaultAudioDir           = "audio"
	defaultOutputDir          = "output"
	defaultClipCount          = 7
	defaultVolume             = 0.8
	defaultFadeMaxSeconds     = 2.0
	defaultFadeFraction       = 0.1
	defaultOutputPrefix       = "viral-clip"
	defaultTimestampLayout    = "06-01-02-15-04-05"
	defaultContainer          = "mp4"
	defaultFFmpegBinary       = "ffmpeg"
	defaultFFprobeBinary      = "ffprobe"
	defaultVideoCodec         = "libx264"
	defaultAudioCodec         = "aac"
	defaultUsageFile          = "clip_usage.json"
	defaultHistoryDB          = "~/.local/share/clipreel/history.db"
	defaultLockTimeoutSeconds = 30
	defaultStaleWorkspaceAge  = 24
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"

	// ShortPolicySilence leaves the video tail silent when the track runs out.
	ShortPolicySilence = "silence"
	// ShortPolicyLoop repeats the track until it covers the video.
	ShortPolicyLoop = "loop"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ClipsDir:  defaultClipsDir,
			AudioDir:  defaultAudioDir,
			OutputDir: defaultOutputDir,
		},
		Library: Library{
			ClipExtensions:  []string{".mp4"},
			AudioExtensions: []string{".mp3"},
		},
		Selection: Selection{
			DefaultCount: defaultClipCount,
		},
		Audio: Audio{
			Volume:         defaultVolume,
			FadeMaxSeconds: defaultFadeMaxSeconds,
			FadeFraction:   defaultFadeFraction,
			ShortPolicy:    ShortPolicySilence,
		},
		Output: Output{
			Prefix:          defaultOutputPrefix,
			TimestampLayout: defaultTimestampLayout,
			Container:       defaultContainer,
		},
		Encoding: Encoding{
			FFmpegBinary:       defaultFFmpegBinary,
			FFprobeBinary:      defaultFFprobeBinary,
			VideoCodec:         defaultVideoCodec,
			AudioCodec:         defaultAudioCodec,
			FallbackVideoCodec: defaultVideoCodec,
			FallbackAudioCodec: defaultAudioCodec,
		},
		State: State{
			UsageFile:          defaultUsageFile,
			LockTimeoutSeconds: defaultLockTimeoutSeconds,
			HistoryEnabled:     true,
			HistoryDB:          defaultHistoryDB,
			StaleWorkspaceAge:  defaultStaleWorkspaceAge,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
