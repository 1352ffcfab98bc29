package userlogic_test

import (
	"context"
	"fmt"
	"time"

	logic "github.com/skovsen/D2D_UserLogic"
)

func ExampleSimulator() {
	room, err := logic.LoadRoom("testdata/room.geojson")
	if err != nil {
		panic(err)
	}
	fmt.Printf("room with %d doors and %d seats\n", len(room.Doors()), len(room.Seats()))

	field := logic.NewGridField(room.Bound(), logic.DefaultFieldOptions())
	group, err := logic.NewGroup(room,
		logic.WithSeed(1),
		logic.WithField(field),
		logic.WithSchedule(logic.Schedule{Phases: []logic.Phase{
			{State: logic.Lecture, Duration: 30 * time.Second},
		}}),
	)
	if err != nil {
		panic(err)
	}

	left := map[logic.Role]int{}
	group.Subscribe(logic.ObserverFunc(func(a *logic.Agent) {
		left[a.Role()]++
	}))

	sim := &logic.Simulator{Group: group, Field: field, Tick: 100 * time.Millisecond}
	if err := sim.Populate(3, 1); err != nil {
		panic(err)
	}
	fmt.Println("users in the room:", len(group.Users()))

	if _, err := sim.Run(context.Background(), 5000); err != nil {
		panic(err)
	}
	fmt.Println("left:", left[logic.Student], "students,", left[logic.Lecturer], "lecturer")
	fmt.Println("users in the room:", len(group.Users()))
	fmt.Println("emptied after the lecture:", group.Clock() > 30*time.Second)

	// Output:
	// room with 2 doors and 12 seats
	// users in the room: 4
	// left: 3 students, 1 lecturer
	// users in the room: 0
	// emptied after the lecture: true
}
