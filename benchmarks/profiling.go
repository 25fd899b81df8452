package benchmarks

import (
	"fmt"
	"os"
	"path"
	"runtime"
	"runtime/pprof"
)

// startProfiling starts the cpu profile when requested and returns
// a function that stops it and writes the memory profile
func startProfiling() (func(), error) {
	stopCPU := func() {}
	if cpuprofile != "" {
		cpuProfPath := path.Join(saveFile, cpuprofile)
		fmt.Println("Profiling CPU to ", cpuProfPath)
		if err := os.MkdirAll(saveFile, os.ModePerm); err != nil {
			return nil, err
		}
		f, err := os.Create(cpuProfPath)
		if err != nil {
			return nil, fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, fmt.Errorf("could not start CPU profile: %w", err)
		}
		stopCPU = func() {
			pprof.StopCPUProfile()
			f.Close()
		}
	}

	return func() {
		stopCPU()
		if memprofile == "" {
			return
		}
		memProfPath := path.Join(saveFile, memprofile)
		fmt.Println("Profiling Memory to ", memProfPath)
		f, err := os.Create(memProfPath)
		if err != nil {
			fmt.Printf("could not create memory profile: %s\n", err)
			return
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Printf("could not write memory profile: %s\n", err)
		}
	}, nil
}
