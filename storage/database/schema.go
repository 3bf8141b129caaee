package database

const schema = `
CREATE TABLE IF NOT EXISTS "user" (
    id         UUID PRIMARY KEY,
    name       TEXT NOT NULL,
    email      TEXT NOT NULL UNIQUE,
    role       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS student (
    id         UUID PRIMARY KEY,
    user_id    UUID NOT NULL REFERENCES "user" (id) ON DELETE CASCADE,
    class_name TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS teacher (
    id         UUID PRIMARY KEY,
    user_id    UUID NOT NULL REFERENCES "user" (id) ON DELETE CASCADE,
    subjects   TEXT[] NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS lesson (
    id         UUID PRIMARY KEY,
    subject    TEXT NOT NULL,
    date       TIMESTAMPTZ NOT NULL,
    topic      TEXT NOT NULL,
    class_name TEXT NOT NULL,
    teacher_id UUID NOT NULL REFERENCES teacher (id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS grade (
    id           UUID PRIMARY KEY,
    student_id   UUID NOT NULL REFERENCES student (id) ON DELETE CASCADE,
    teacher_id   UUID NOT NULL REFERENCES teacher (id) ON DELETE CASCADE,
    subject      TEXT NOT NULL,
    score        DOUBLE PRECISION NOT NULL,
    date         TIMESTAMPTZ NOT NULL,
    lesson_topic TEXT,
    created_at   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS attendance (
    id         UUID PRIMARY KEY,
    student_id UUID NOT NULL REFERENCES student (id) ON DELETE CASCADE,
    lesson_id  UUID NOT NULL REFERENCES lesson (id) ON DELETE CASCADE,
    present    BOOLEAN NOT NULL,
    date       TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS homework (
    id          UUID PRIMARY KEY,
    title       TEXT NOT NULL,
    description TEXT,
    due_date    TIMESTAMPTZ NOT NULL,
    lesson_id   UUID NOT NULL REFERENCES lesson (id) ON DELETE CASCADE,
    teacher_id  UUID NOT NULL REFERENCES teacher (id) ON DELETE CASCADE,
    created_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS submission (
    id           UUID PRIMARY KEY,
    homework_id  UUID NOT NULL REFERENCES homework (id) ON DELETE CASCADE,
    student_id   UUID NOT NULL REFERENCES student (id) ON DELETE CASCADE,
    submitted_at TIMESTAMPTZ NOT NULL,
    content      TEXT,
    grade        DOUBLE PRECISION,
    feedback     TEXT,
    is_completed BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS grade_student_date_idx ON grade (student_id, date);
CREATE INDEX IF NOT EXISTS attendance_student_date_idx ON attendance (student_id, date);
CREATE INDEX IF NOT EXISTS homework_due_date_idx ON homework (due_date);
CREATE INDEX IF NOT EXISTS submission_student_idx ON submission (student_id, homework_id);
`
