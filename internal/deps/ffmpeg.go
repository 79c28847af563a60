package deps

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"
)

const versionTimeout = 5 * time.Second

// MediaRequirements lists the ffmpeg tools a render needs.
func MediaRequirements(ffmpegBinary, ffprobeBinary string) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     ffmpegBinary,
			Description: "Required to join clips and mix audio",
		},
		{
			Name:        "FFprobe",
			Command:     ffprobeBinary,
			Description: "Required to measure compilation length",
		},
	}
}

// CheckMedia checks the ffmpeg tools and annotates available ones with
// their reported version.
func CheckMedia(ctx context.Context, ffmpegBinary, ffprobeBinary string) []Status {
	results := CheckBinaries(MediaRequirements(ffmpegBinary, ffprobeBinary))
	for i := range results {
		if !results[i].Available {
			continue
		}
		if version := ProbeVersion(ctx, results[i].Path); version != "" {
			results[i].Detail = version
		}
	}
	return results
}

// ProbeVersion runs "<binary> -version" and returns the version token from
// the first line ("ffmpeg version 6.1.1-3ubuntu5 Copyright..." yields
// "6.1.1-3ubuntu5"). It returns "" when the binary does not answer.
func ProbeVersion(ctx context.Context, binary string) string {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, binary, "-version").Output()
	if err != nil {
		return ""
	}
	return parseVersion(out)
}

func parseVersion(out []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	if !scanner.Scan() {
		return ""
	}
	fields := strings.Fields(scanner.Text())
	for i := 0; i+1 < len(fields); i++ {
		if fields[i] == "version" {
			return fields[i+1]
		}
	}
	return ""
}
