package main

import (
	"context"
	"log"
	"time"

	"github.com/cujae-dev/horarios-api/internal/models"
	"github.com/cujae-dev/horarios-api/internal/repository"
	"github.com/cujae-dev/horarios-api/pkg/config"
	"github.com/cujae-dev/horarios-api/pkg/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS subjects (
	id UUID PRIMARY KEY,
	code VARCHAR(20) NOT NULL UNIQUE,
	name VARCHAR(100) NOT NULL,
	acronym VARCHAR(10) NOT NULL,
	description TEXT,
	credits INTEGER NOT NULL DEFAULT 0,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS teachers (
	id UUID PRIMARY KEY,
	employee_id VARCHAR(20) NOT NULL UNIQUE,
	first_name VARCHAR(100) NOT NULL,
	last_name VARCHAR(100) NOT NULL,
	email VARCHAR(200) NOT NULL UNIQUE,
	phone VARCHAR(20),
	department VARCHAR(100),
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS class_types (
	id UUID PRIMARY KEY,
	name VARCHAR(100) NOT NULL UNIQUE,
	acronym VARCHAR(10) NOT NULL UNIQUE,
	description TEXT,
	color VARCHAR(7),
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS classrooms (
	id UUID PRIMARY KEY,
	code VARCHAR(20) NOT NULL UNIQUE,
	name VARCHAR(100) NOT NULL,
	building VARCHAR(100),
	floor INTEGER,
	capacity INTEGER,
	description TEXT,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS subject_teachers (
	id UUID PRIMARY KEY,
	subject_id UUID NOT NULL REFERENCES subjects(id),
	teacher_id UUID NOT NULL REFERENCES teachers(id),
	is_primary BOOLEAN NOT NULL DEFAULT FALSE,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS schedules (
	id UUID PRIMARY KEY,
	subject_id UUID NOT NULL REFERENCES subjects(id),
	class_type_id UUID NOT NULL REFERENCES class_types(id),
	classroom_id UUID NOT NULL REFERENCES classrooms(id),
	teacher_id UUID NOT NULL REFERENCES teachers(id),
	day_of_week INTEGER NOT NULL,
	start_time VARCHAR(5) NOT NULL,
	end_time VARCHAR(5) NOT NULL,
	semester VARCHAR(20) NOT NULL,
	week_start DATE NOT NULL,
	week_end DATE NOT NULL,
	notes TEXT,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_schedules_classroom_day ON schedules (classroom_id, day_of_week, semester);
CREATE INDEX IF NOT EXISTS idx_schedules_teacher_day ON schedules (teacher_id, day_of_week, semester);
CREATE INDEX IF NOT EXISTS idx_schedules_semester ON schedules (semester);
`

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		log.Fatalf("failed to create schema: %v", err)
	}
	log.Println("schema ready")

	classTypeRepo := repository.NewClassTypeRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	subjectTeacherRepo := repository.NewSubjectTeacherRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	classTypes := []*models.ClassType{
		{Name: "Conferencia", Acronym: "CONF", Description: strPtr("Clase magistral"), Color: strPtr("#FF6B6B"), Active: true},
		{Name: "Laboratorio", Acronym: "LAB", Description: strPtr("Clase práctica en laboratorio"), Color: strPtr("#4ECDC4"), Active: true},
		{Name: "Clase Práctica", Acronym: "CP", Description: strPtr("Clase práctica"), Color: strPtr("#45B7D1"), Active: true},
		{Name: "Seminario", Acronym: "SEM", Description: strPtr("Seminario"), Color: strPtr("#96CEB4"), Active: true},
		{Name: "Prueba Parcial", Acronym: "PP", Description: strPtr("Evaluación parcial"), Color: strPtr("#FFEAA7"), Active: true},
		{Name: "Prueba Final", Acronym: "PF", Description: strPtr("Evaluación final"), Color: strPtr("#DDA0DD"), Active: true},
	}
	for _, ct := range classTypes {
		if err := classTypeRepo.Create(ctx, ct); err != nil {
			log.Fatalf("failed to seed class type %s: %v", ct.Acronym, err)
		}
	}
	log.Printf("seeded %d class types", len(classTypes))

	teachers := []*models.Teacher{
		{EmployeeID: "T001", FirstName: "Juan", LastName: "Pérez", Email: "juan.perez@cujae.edu.cu", Phone: strPtr("+53 5 123 4567"), Department: strPtr("Informática"), Active: true},
		{EmployeeID: "T002", FirstName: "María", LastName: "García", Email: "maria.garcia@cujae.edu.cu", Phone: strPtr("+53 5 234 5678"), Department: strPtr("Matemáticas"), Active: true},
		{EmployeeID: "T003", FirstName: "Carlos", LastName: "López", Email: "carlos.lopez@cujae.edu.cu", Phone: strPtr("+53 5 345 6789"), Department: strPtr("Física"), Active: true},
		{EmployeeID: "T004", FirstName: "Ana", LastName: "Martínez", Email: "ana.martinez@cujae.edu.cu", Phone: strPtr("+53 5 456 7890"), Department: strPtr("Química"), Active: true},
	}
	for _, t := range teachers {
		if err := teacherRepo.Create(ctx, t); err != nil {
			log.Fatalf("failed to seed teacher %s: %v", t.EmployeeID, err)
		}
	}
	log.Printf("seeded %d teachers", len(teachers))

	subjects := []*models.Subject{
		{Code: "INF101", Name: "Programación I", Acronym: "PROG1", Description: strPtr("Fundamentos de programación"), Credits: 4, Active: true},
		{Code: "INF102", Name: "Programación II", Acronym: "PROG2", Description: strPtr("Programación orientada a objetos"), Credits: 4, Active: true},
		{Code: "MAT101", Name: "Cálculo I", Acronym: "CALC1", Description: strPtr("Cálculo diferencial e integral"), Credits: 5, Active: true},
		{Code: "FIS101", Name: "Física I", Acronym: "FIS1", Description: strPtr("Mecánica clásica"), Credits: 4, Active: true},
		{Code: "QUI101", Name: "Química General", Acronym: "QUIM", Description: strPtr("Fundamentos de química"), Credits: 3, Active: true},
	}
	for _, s := range subjects {
		if err := subjectRepo.Create(ctx, s); err != nil {
			log.Fatalf("failed to seed subject %s: %v", s.Code, err)
		}
	}
	log.Printf("seeded %d subjects", len(subjects))

	classrooms := []*models.Classroom{
		{Code: "A101", Name: "Aula 101", Building: strPtr("Edificio A"), Floor: intPtr(1), Capacity: intPtr(30), Active: true},
		{Code: "A102", Name: "Aula 102", Building: strPtr("Edificio A"), Floor: intPtr(1), Capacity: intPtr(30), Active: true},
		{Code: "LAB1", Name: "Laboratorio 1", Building: strPtr("Edificio B"), Floor: intPtr(1), Capacity: intPtr(20), Active: true},
		{Code: "LAB2", Name: "Laboratorio 2", Building: strPtr("Edificio B"), Floor: intPtr(1), Capacity: intPtr(20), Active: true},
		{Code: "A201", Name: "Aula 201", Building: strPtr("Edificio A"), Floor: intPtr(2), Capacity: intPtr(40), Active: true},
	}
	for _, room := range classrooms {
		if err := classroomRepo.Create(ctx, room); err != nil {
			log.Fatalf("failed to seed classroom %s: %v", room.Code, err)
		}
	}
	log.Printf("seeded %d classrooms", len(classrooms))

	assignments := []struct {
		subject *models.Subject
		teacher *models.Teacher
	}{
		{subjects[0], teachers[0]},
		{subjects[1], teachers[0]},
		{subjects[2], teachers[1]},
		{subjects[3], teachers[2]},
		{subjects[4], teachers[3]},
	}
	for _, a := range assignments {
		link := models.SubjectTeacher{SubjectID: a.subject.ID, TeacherID: a.teacher.ID, IsPrimary: true, Active: true}
		if err := subjectTeacherRepo.Create(ctx, &link); err != nil {
			log.Fatalf("failed to seed subject teacher %s/%s: %v", a.subject.Code, a.teacher.EmployeeID, err)
		}
	}
	log.Printf("seeded %d subject-teacher links", len(assignments))

	weekStart := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	weekEnd := time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)
	schedules := []*models.Schedule{
		{SubjectID: subjects[0].ID, ClassTypeID: classTypes[0].ID, ClassroomID: classrooms[0].ID, TeacherID: teachers[0].ID, DayOfWeek: models.DayMonday, StartTime: "08:00", EndTime: "10:00", Semester: "2024-1", WeekStart: weekStart, WeekEnd: weekEnd, Active: true},
		{SubjectID: subjects[0].ID, ClassTypeID: classTypes[1].ID, ClassroomID: classrooms[2].ID, TeacherID: teachers[0].ID, DayOfWeek: models.DayWednesday, StartTime: "14:00", EndTime: "16:00", Semester: "2024-1", WeekStart: weekStart, WeekEnd: weekEnd, Active: true},
		{SubjectID: subjects[2].ID, ClassTypeID: classTypes[0].ID, ClassroomID: classrooms[1].ID, TeacherID: teachers[1].ID, DayOfWeek: models.DayTuesday, StartTime: "08:00", EndTime: "10:00", Semester: "2024-1", WeekStart: weekStart, WeekEnd: weekEnd, Active: true},
		{SubjectID: subjects[3].ID, ClassTypeID: classTypes[0].ID, ClassroomID: classrooms[4].ID, TeacherID: teachers[2].ID, DayOfWeek: models.DayThursday, StartTime: "10:00", EndTime: "12:00", Semester: "2024-1", WeekStart: weekStart, WeekEnd: weekEnd, Active: true},
		{SubjectID: subjects[4].ID, ClassTypeID: classTypes[0].ID, ClassroomID: classrooms[0].ID, TeacherID: teachers[3].ID, DayOfWeek: models.DayFriday, StartTime: "14:00", EndTime: "16:00", Semester: "2024-1", WeekStart: weekStart, WeekEnd: weekEnd, Active: true},
	}
	for _, sched := range schedules {
		if err := scheduleRepo.Create(ctx, sched); err != nil {
			log.Fatalf("failed to seed schedule: %v", err)
		}
	}
	log.Printf("seeded %d schedules", len(schedules))

	log.Println("database initialised")
}
