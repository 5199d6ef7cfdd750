package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
	sourceExt    = ".crane"
)

// languageSeeds покрывают каждую форму языка и каждую фатальную ошибку.
var languageSeeds = []string{
	"",
	"x = 1 + 2 * 3",
	"def add(a, b) { a + b }",
	"if (x > 1) { print(x) }",
	"foo(1, (2 + 3) * 4, bar())",
	"s = \"esc \\n \\t \\\" \\\\\"",
	"c = 'x'",
	"True False None true false none",
	"a and b or not c",
	"x <= y >= z == w != v",
	"\"unterminated",
	"'ab'",
	"\"bad \\q escape\"",
	"9abc",
	"x @ y",
	"(((",
	")))",
	"{ } }",
	"def f(a b) {}",
	"def (a) {}",
	"if x { }",
	"foo(,)",
	"x = ",
	"1 +",
	"def f() { if (a) { { } }",
	"имя = 1",
	"x\r\ny\r\n",
	"﻿x = 1",
}

func addCorpusSeeds(f *testing.F) {
	for _, seed := range languageSeeds {
		f.Add([]byte(seed))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.crane файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != sourceExt {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
