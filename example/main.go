package main

import (
	"fmt"

	uuid "github.com/nu7hatch/gouuid"

	"github.com/scratchmem/stackalloc/lib/objectpool"
	"github.com/scratchmem/stackalloc/lib/stackalloc"
)

type particle struct {
	X, Y, Z  float32
	Lifetime float32
}

type renderSession struct {
	ID     string
	Frames int
}

func main() {
	frameArena := stackalloc.NewDoubleStackAllocator(1 << 20)

	// per-level data grows down and survives across frames
	levelGeometry, levelAllocErr := stackalloc.AllocDownSlice[particle](frameArena, 1024)
	if levelAllocErr != nil {
		panic(levelAllocErr)
	}
	fmt.Printf("level geometry: %d particles; %v\n", len(levelGeometry), frameArena.Metrics())

	sessions := objectpool.New(newRenderSession, objectpool.Options[*renderSession]{
		OnGet:   func(s *renderSession) { s.Frames = 0 },
		MaxIdle: 4,
	})

	for frame := 0; frame < 3; frame++ {
		session := sessions.Get()
		frameMark := frameArena.UpMarker()

		// per-frame scratch grows up and is rolled back wholesale
		scratch, frameAllocErr := stackalloc.AllocUpSlice[particle](frameArena, 4096)
		if frameAllocErr != nil {
			panic(frameAllocErr)
		}
		for i := range scratch {
			scratch[i].Lifetime = float32(frame)
			session.Frames++
		}
		fmt.Printf(
			"frame %d: session %s simulated %d particles; %v\n",
			frame, session.ID, len(scratch), frameArena.Metrics(),
		)

		if freeErr := frameArena.FreeUp(frameMark); freeErr != nil {
			panic(freeErr)
		}
		if releaseErr := sessions.Release(session); releaseErr != nil {
			panic(releaseErr)
		}
	}
	fmt.Printf("sessions: %v\n", sessions)

	frameArena.Clear()
	fmt.Printf("after clear: %v\n", frameArena.Metrics())
}

func newRenderSession() *renderSession {
	id, idErr := uuid.NewV4()
	if idErr != nil {
		panic(idErr)
	}
	return &renderSession{ID: id.String()}
}
