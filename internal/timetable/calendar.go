// Package timetable implements the constraint-driven placement engine:
// a fixed weekly calendar, an availability/conflict oracle, three
// sequential greedy placement passes (labs, lectures, minimum-fill)
// and a read-only validator over the finished schedule.
package timetable

import "github.com/campusone/timetable-api/internal/models"

// Days lists the operating days in scan order.
var Days = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// LectureSlots is the fixed daily lecture catalog. The 13:05-13:35
// lunch interval sits between the fourth and fifth slot and is never
// assignable.
var LectureSlots = []models.TimeSlot{
	{Start: "09:15", End: "10:15"},
	{Start: "10:15", End: "11:15"},
	{Start: "11:15", End: "12:15"},
	{Start: "12:15", End: "13:05"},
	{Start: "13:35", End: "14:35"},
	{Start: "14:35", End: "15:35"},
}

// LabSlots are the two canonical 2-hour lab periods.
var LabSlots = []models.TimeSlot{
	{Start: "09:15", End: "11:15"},
	{Start: "13:35", End: "15:35"},
}

// LunchBreak is never assignable.
var LunchBreak = models.TimeSlot{Start: "13:05", End: "13:35"}

// MaxWeeklyLectures caps lectures per (class, subject) per week.
const MaxWeeklyLectures = 2

// MinDailyLectures is the fill target for whole-class entries per day.
const MinDailyLectures = 4

// firstLectureStart marks the day's opening slot; HOD-ranked faculty
// are barred from it.
var firstLectureStart = LectureSlots[0].Start
