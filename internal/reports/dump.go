package reports

import (
	"strconv"
	"strings"

	"github.com/crashstack/crashstats-web/internal/models"
)

// ParseDump splits pipe-delimited minidump text into header fields and
// per-thread stack frames. Frame source references of the form
// vcs:repo:file:revision become browseable links when the VCS mapping table
// carries a template for that vcs/host pair.
func ParseDump(dump string, vcsMappings map[string]map[string]string) models.ParsedDump {
	var parsed models.ParsedDump
	threads := make(map[int]*models.DumpThread)
	var threadOrder []int

	for _, line := range strings.Split(dump, "\n") {
		if line == "" {
			continue
		}
		entry := strings.Split(line, "|")
		switch entry[0] {
		case "OS":
			if len(entry) >= 3 {
				parsed.OSName = entry[1]
				parsed.OSVersion = entry[2]
			}
		case "CPU":
			if len(entry) >= 3 {
				parsed.CPUName = entry[1]
				parsed.CPUVersion = entry[2]
			}
		case "Crash":
			if len(entry) >= 3 {
				parsed.Reason = entry[1]
				parsed.Address = entry[2]
			}
		case "Module":
			// Module rows carry no stack information.
		default:
			if len(entry) < 7 {
				continue
			}
			threadNum, err := strconv.Atoi(entry[0])
			if err != nil {
				continue
			}
			frameNum, err := strconv.Atoi(entry[1])
			if err != nil {
				continue
			}
			frame := models.StackFrame{
				FrameNum:    frameNum,
				Module:      entry[2],
				Function:    entry[3],
				Source:      entry[4],
				SourceLine:  entry[5],
				Instruction: entry[6],
			}
			frame.SourceLink = sourceLink(frame.Source, frame.SourceLine, vcsMappings)

			thread, ok := threads[threadNum]
			if !ok {
				thread = &models.DumpThread{Number: threadNum}
				threads[threadNum] = thread
				threadOrder = append(threadOrder, threadNum)
			}
			thread.Frames = append(thread.Frames, frame)
		}
	}

	for _, num := range threadOrder {
		parsed.Threads = append(parsed.Threads, *threads[num])
	}
	return parsed
}

// sourceLink expands a vcs:root/repo:file:revision source reference using
// the template registered for its vcs type and host.
func sourceLink(source, line string, vcsMappings map[string]map[string]string) string {
	parts := strings.Split(source, ":")
	if len(parts) != 4 {
		return ""
	}
	vcsType, root, file, revision := parts[0], parts[1], parts[2], parts[3]

	host, repo, found := strings.Cut(root, "/")
	if !found {
		host = root
	}
	templates, ok := vcsMappings[vcsType]
	if !ok {
		return ""
	}
	template, ok := templates[host]
	if !ok {
		return ""
	}

	replacer := strings.NewReplacer(
		"{repo}", repo,
		"{file}", file,
		"{revision}", revision,
		"{line}", line,
	)
	return replacer.Replace(template)
}
