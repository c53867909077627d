package commands

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/inertpad/inertpad/devices"
	"golang.org/x/sys/unix"
)

const (
	uinputPath = "/dev/uinput"
	inputDir   = "/dev/input"
)

type DoctorInfo struct {
	InertPadVersion   string   `json:"inertpad_version"`
	OS                string   `json:"os"`
	OSVersion         string   `json:"os_version"`
	UinputWritable    bool     `json:"uinput_writable"`
	ReadableDevices   int      `json:"readable_input_devices"`
	UnreadableDevices int      `json:"unreadable_input_devices"`
	Touchpads         []string `json:"touchpads"`
	ConfigPath        string   `json:"config_path"`
	ConfigExists      bool     `json:"config_exists"`
	Hints             []string `json:"hints,omitempty"`
}

func getOSVersion() string {
	data, err := os.ReadFile("/etc/os-release")
	if err != nil {
		return ""
	}
	return parseOSRelease(string(data))
}

func parseOSRelease(data string) string {
	for _, line := range strings.Split(data, "\n") {
		if strings.HasPrefix(line, "PRETTY_NAME=") {
			return strings.Trim(strings.TrimPrefix(line, "PRETTY_NAME="), "\"")
		}
	}
	return ""
}

// countEventNodes counts the event nodes in dir by read permission
func countEventNodes(dir string) (readable, unreadable int) {
	nodes, err := filepath.Glob(filepath.Join(dir, "event*"))
	if err != nil {
		return 0, 0
	}
	for _, node := range nodes {
		if unix.Access(node, unix.R_OK) == nil {
			readable++
		} else {
			unreadable++
		}
	}
	return readable, unreadable
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// DoctorCommand checks the permissions and devices the engine needs
func DoctorCommand(version, configPath string) *CommandResponse {
	info := DoctorInfo{
		InertPadVersion: version,
		OS:              runtime.GOOS,
		OSVersion:       getOSVersion(),
		UinputWritable:  unix.Access(uinputPath, unix.W_OK) == nil,
		Touchpads:       []string{},
		ConfigPath:      configPath,
		ConfigExists:    fileExists(configPath),
	}

	info.ReadableDevices, info.UnreadableDevices = countEventNodes(inputDir)

	if touchpads, err := devices.ListTouchpads(); err == nil {
		for _, tp := range touchpads {
			info.Touchpads = append(info.Touchpads, tp.Path+" ("+tp.Name+")")
		}
	}

	info.Hints = hints(info)
	return NewSuccessResponse(info)
}

func hints(info DoctorInfo) []string {
	var out []string
	if !info.UinputWritable {
		out = append(out, "cannot write "+uinputPath+", load the uinput module and grant write access (e.g. a udev rule for the input group)")
	}
	if info.UnreadableDevices > 0 && info.ReadableDevices == 0 {
		out = append(out, "cannot read "+inputDir+", add your user to the input group")
	}
	if len(info.Touchpads) == 0 && info.ReadableDevices > 0 {
		out = append(out, "no touchpad found among the readable input devices")
	}
	return out
}
