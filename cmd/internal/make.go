package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/gen2brain/beeep"
	archiver "github.com/mholt/archiver/v3"
	. "github.com/storozhukBM/build"
)

const coverageName = `coverage.out`
const binDirName = `bin`
const linterName = `golangci-lint`
const linterVersion = `v1.64.8`

var parallelism = strconv.Itoa(runtime.NumCPU() * 4)

var b = NewBuild(BuildOptions{})
var commands = []Command{
	{Name: `build`, Body: b.RunCmd(Go, `build`, `./...`)},

	{Name: `buildInlineBounds`, Body: b.ShRunCmd(
		Go, `build`, `-gcflags='-m -d=ssa/check_bce/debug=1'`, `./...`,
	)},

	{Name: `clean`, Body: clean},
	{Name: `cleanAll`, Body: func() { clean(); cleanExecutables() }},

	{Name: `test`, Body: test},
	{Name: `testRace`, Body: func() {
		b.Run(Go, `test`, `-race`, `-parallel`, parallelism, `./lib/...`)
	}},

	{Name: `bench`, Body: func() {
		b.Run(
			Go, `test`, `-bench=.`, `-benchmem`, `-run=^$`,
			`./lib/stackalloc/allocation_bench_test/...`,
		)
		notify(`benchmarks finished`)
	}},

	{Name: `lint`, Body: cilint},

	{Name: `coverage`, Body: func() {
		clean()
		b.Run(
			Go, `test`, `-coverpkg=./...`, `-coverprofile=`+coverageName,
			`./lib/...`,
		)
		b.Run(Go, `tool`, `cover`, `-html=`+coverageName)
		notify(`coverage report is ready`)
	}},
}

func test() {
	defer clean()
	b.Run(Go, `test`, `-parallel`, parallelism, `./lib/...`)
}

func clean() {
	b.Once(`cleanOnce`, func() { forceClean() })
}

func forceClean() {
	b.Run(Go, `clean`, `./...`)
	b.Run(`rm`, `-f`, coverageName)
	b.Run(`rm`, `-f`, `./example/main`)
}

func cleanExecutables() {
	b.Run(`rm`, `-rf`, binDirName)
}

func notify(message string) {
	// best effort, builds shouldn't fail because of a missing notifier
	_ = beeep.Notify(`stackalloc build`, message, ``)
}

func cilint() {
	executableFileName := linterName
	if runtime.GOOS == "windows" {
		executableFileName += ".exe"
	}
	versionInUrl := linterVersion[1:]
	targetFileName := linterFileNameByVersionAndRuntime(versionInUrl)
	executable := filepath.Join(binDirName, targetFileName, executableFileName)

	if _, err := os.Stat(executable); os.IsNotExist(err) {
		resultExecutable, downloadErr := downloadAndUnpackLinter()
		if downloadErr != nil {
			b.AddError(downloadErr)
			return
		}
		if executable != resultExecutable {
			b.AddError(fmt.Errorf(
				"wrong exec version; expected: %v; actual: %v",
				executable, resultExecutable,
			))
			return
		}
	}

	b.Run(executable, `-j`, parallelism, `run`)
}

func downloadAndUnpackLinter() (string, error) {
	versionInUrl := linterVersion[1:]
	filePath, downloadErr := downloadLinter()
	if downloadErr != nil {
		return "", downloadErr
	}

	executableFile := linterName
	if runtime.GOOS == "windows" {
		executableFile += ".exe"
	}

	decompressionErr := archiver.Unarchive(filePath, binDirName)
	if decompressionErr != nil {
		return "", fmt.Errorf("can't decompress file. File: %v; Error: %v", filePath, decompressionErr)
	}
	targetFileName := linterFileNameByVersionAndRuntime(versionInUrl)

	return filepath.Join(binDirName, targetFileName, executableFile), nil
}

func downloadLinter() (string, error) {
	versionInUrl := linterVersion[1:]
	archiveType := "tar.gz"
	if runtime.GOOS == "windows" {
		archiveType = "zip"
	}
	targetFileName := linterFileNameByVersionAndRuntime(versionInUrl)
	downloadUrl := fmt.Sprintf(
		"https://github.com/golangci/golangci-lint/"+
			"releases/download/%s/%s.%s",
		linterVersion, targetFileName, archiveType,
	)
	fmt.Printf("Going to download linter: %s\n", downloadUrl)

	resp, getErr := http.Get(downloadUrl)
	if getErr != nil {
		return "", fmt.Errorf("can't get linter. URL: `%v`; Error: %v", downloadUrl, getErr)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("can't get linter. URL: `%v`; Code: %v", downloadUrl, resp.Status)
	}
	respBody := resp.Body
	defer respBody.Close()

	destFile, tempFileErr := os.CreateTemp("", "*."+archiveType)
	if tempFileErr != nil {
		return "", fmt.Errorf("can't store linter. URL: `%v`; Error: %v", downloadUrl, tempFileErr)
	}
	defer destFile.Close()

	_, copyErr := io.Copy(destFile, respBody)
	if copyErr != nil {
		return "", fmt.Errorf("can't download linter. URL: `%v`; Error: %v", downloadUrl, copyErr)
	}
	return destFile.Name(), nil
}

func linterFileNameByVersionAndRuntime(versionInUrl string) string {
	return fmt.Sprintf("golangci-lint-%s-%s-%s", versionInUrl, runtime.GOOS, runtime.GOARCH)
}

func main() {
	b.Register(commands)
	b.BuildFromOsArgs()
}
