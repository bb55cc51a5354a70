package profiler

import (
	"os"
	"strconv"
	"strings"

	"chartproof/internal/config"
	"chartproof/internal/logging"
)

// Flags maps the profiler configuration onto the tool's argument list.
// Spectral-only options (-i, -o, -f) are suppressed when the TI3
// carries no spectral data, since the tool rejects them otherwise.
func Flags(p config.Profiler, spectral bool) []string {
	quality := p.Quality
	if quality == "" {
		quality = "m"
	}
	b2a := p.B2A
	if b2a == "" {
		b2a = "m"
	}
	args := []string{"-v", "-q" + quality, "-b" + b2a}

	if p.Algorithm != "" {
		args = append(args, "-a", p.Algorithm)
	}
	if p.Demphasis != "" {
		args = append(args, "-V", p.Demphasis)
	}
	if p.AvgDev != "" {
		args = append(args, "-r", p.AvgDev)
	}
	if p.FWA && spectral {
		if p.FWAIlluminant != "" {
			args = append(args, "-f", p.FWAIlluminant)
		} else {
			args = append(args, "-f")
		}
	}

	args = appendSourceMap(args, "-s", p.GamutMapPerceptual)
	args = appendSourceMap(args, "-S", p.GamutMapBoth)
	if p.ColSrcPerceptual {
		args = append(args, "-nP")
	}
	if p.ColSrcSaturation {
		args = append(args, "-nS")
	}
	if p.SourceGamutFile != "" {
		args = append(args, "-g", p.SourceGamutFile)
	}
	if p.AbstractProfiles != "" {
		args = append(args, "-p", p.AbstractProfiles)
	}
	if p.PerceptualIntent != "" {
		args = append(args, "-t", p.PerceptualIntent)
	}
	if p.SaturationIntent != "" {
		args = append(args, "-T", p.SaturationIntent)
	}
	if p.ViewcondIn != "" {
		args = append(args, "-c", p.ViewcondIn)
	}
	if p.ViewcondOut != "" {
		args = append(args, "-d", p.ViewcondOut)
	}
	if p.GamutVRML {
		args = append(args, "-P")
	}

	if p.Manufacturer != "" {
		args = append(args, "-A", p.Manufacturer)
	}
	if p.Model != "" {
		args = append(args, "-M", p.Model)
	}
	if p.Copyright != "" {
		args = append(args, "-C", p.Copyright)
	}
	if p.Attributes != "" {
		args = append(args, "-Z", p.Attributes)
	}
	if p.DefaultIntent != "" {
		args = append(args, "-Z", p.DefaultIntent)
	}

	if p.TotalInkLimit != "" {
		args = append(args, "-l", p.TotalInkLimit)
	}
	if p.BlackInkLimit != "" {
		args = append(args, "-L", p.BlackInkLimit)
	}
	if p.BlackGeneration != "" {
		args = append(args, "-k")
		args = append(args, strings.Fields(p.BlackGeneration)...)
	}
	if p.KLocus != "" {
		args = append(args, "-K")
		args = append(args, strings.Fields(p.KLocus)...)
	}

	if p.NoDeviceShaper {
		args = append(args, "-ni")
	}
	if p.NoGridPosition {
		args = append(args, "-np")
	}
	if p.NoOutputShaper {
		args = append(args, "-no")
	}
	if p.NoEmbedTI3 {
		args = append(args, "-nc")
	}
	if p.InputAutoScaleWP {
		args = append(args, "-u")
	}
	if p.InputForceAbsolute {
		args = append(args, "-ua")
	}
	if p.InputClipAboveWP {
		args = append(args, "-uc")
	}
	if p.RestrictPositive {
		args = append(args, "-R")
	}
	if p.WhitepointScale != "" {
		args = append(args, "-U", p.WhitepointScale)
	}

	if spectral {
		illum := p.Illuminant
		if illum == "" {
			illum = "D50"
		}
		observer := p.Observer
		if observer == "" {
			observer = "1931_2"
		}
		args = append(args, "-i", illum, "-o", observer)
	}
	return args
}

var sourceMapExts = []string{".icc", ".icm", ".jpg", ".jpeg", ".tif", ".tiff"}

// appendSourceMap handles -s/-S values: file-like values must exist on
// disk or the flag is dropped with a warning; anything else (such as a
// gamut percentage) passes through unchanged.
func appendSourceMap(args []string, flag, val string) []string {
	if val == "" {
		return args
	}
	lower := strings.ToLower(val)
	fileLike := false
	for _, ext := range sourceMapExts {
		if strings.HasSuffix(lower, ext) {
			fileLike = true
			break
		}
	}
	if !fileLike {
		return append(args, flag, val)
	}
	if _, err := os.Stat(val); err != nil {
		logging.New("profiler").Warn("source map profile not found, dropping flag", "flag", flag, "path", val)
		return args
	}
	return append(args, flag, val)
}

// Env returns the child environment additions for the tool.
func Env(p config.Profiler) []string {
	threads := p.Threads
	if threads <= 0 {
		threads = 1
	}
	return []string{"OMP_NUM_THREADS=" + strconv.Itoa(threads)}
}
