//go:build darwin || linux

// Shared utilities for purego-based native bindings.

package codeccaps

import (
	"os"
	"path/filepath"
	"runtime"
	"unsafe"
)

// goStringFromPtr converts a C string pointer to a Go string.
func goStringFromPtr(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	// Find string length
	p := unsafe.Pointer(ptr)
	var length int
	for {
		if *(*byte)(unsafe.Pointer(uintptr(p) + uintptr(length))) == 0 {
			break
		}
		length++
		if length > 1024 { // Safety limit
			break
		}
	}
	if length == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(p), length))
}

// findModuleRoot walks up the directory tree from the current working directory
// to find the module root (directory containing go.mod).
func findModuleRoot() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// nativeLibPaths lists candidate paths for a shared library in priority
// order. names are tried as given (versioned sonames first) in every
// directory.
func nativeLibPaths(dir, envVar string, names ...string) []string {
	var dirs []string

	// Explicit directory and environment overrides (highest priority)
	if dir != "" {
		dirs = append(dirs, dir)
	}
	if envPath := os.Getenv(envVar); envPath != "" {
		dirs = append(dirs, envPath)
	}
	if envPath := os.Getenv("STREAM_SDK_LIB_PATH"); envPath != "" {
		dirs = append(dirs, envPath)
	}

	// Relative to executable and module root
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		dirs = append(dirs, exeDir, filepath.Join(exeDir, "..", "lib"))
	}
	if moduleRoot := findModuleRoot(); moduleRoot != "" {
		dirs = append(dirs, filepath.Join(moduleRoot, "build"))
	}

	var paths []string
	for _, d := range dirs {
		for _, name := range names {
			paths = append(paths, filepath.Join(d, name))
		}
	}

	// System paths (lowest priority); bare names go through the loader's
	// own search.
	var system []string
	switch runtime.GOOS {
	case "darwin":
		system = []string{"/opt/homebrew/lib", "/usr/local/lib"}
	case "linux":
		system = []string{"/usr/lib/x86_64-linux-gnu", "/usr/lib/aarch64-linux-gnu", "/usr/local/lib", "/usr/lib"}
	}
	paths = append(paths, names...)
	for _, d := range system {
		for _, name := range names {
			paths = append(paths, filepath.Join(d, name))
		}
	}
	return paths
}
