// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/kyle-silver/jsonmap/internal/server"
)

const testMaxRequestBytes = 1 << 20 // 1 MiB, matching internal/config.Defaults

func postTranslate(ts *httptest.Server, program string, input json.RawMessage) (*http.Response, map[string]any) {
	body, _ := json.Marshal(map[string]any{"program": program, "input": input})
	resp, err := http.Post(ts.URL+"/v1/translate", "application/json", bytes.NewReader(body)) //nolint:noctx
	Expect(err).NotTo(HaveOccurred())
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())
	var decoded map[string]any
	Expect(json.Unmarshal(raw, &decoded)).To(Succeed())
	return resp, decoded
}

var _ = Describe("POST /v1/translate", func() {
	var ts *httptest.Server

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		ts = httptest.NewServer(server.New(logger, testMaxRequestBytes))
	})

	AfterEach(func() {
		ts.Close()
	})

	It("evaluates scenario S1 (field references)", func() {
		resp, decoded := postTranslate(ts, `speaker = &actor; message = &line;`, json.RawMessage(`{"actor":"Alice","line":"Hi"}`))
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		output := decoded["output"].(map[string]any)
		Expect(output["speaker"]).To(Equal("Alice"))
		Expect(output["message"]).To(Equal("Hi"))
	})

	It("evaluates scenario S2 (list index reference)", func() {
		resp, decoded := postTranslate(ts, `my_fav = &fruits.1;`, json.RawMessage(`{"fruits":["apples","bananas","cherries"]}`))
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		output := decoded["output"].(map[string]any)
		Expect(output["my_fav"]).To(Equal("bananas"))
	})

	It("evaluates scenario S3 (nested object literal with a literal field)", func() {
		resp, decoded := postTranslate(ts, `classroom = { teacher = &t; n = &n; grade = 5; }`, json.RawMessage(`{"t":"Bob","n":25}`))
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		output := decoded["output"].(map[string]any)
		classroom := output["classroom"].(map[string]any)
		Expect(classroom["teacher"]).To(Equal("Bob"))
		Expect(classroom["n"]).To(Equal(float64(25)))
		Expect(classroom["grade"]).To(Equal(float64(5)))
	})

	It("evaluates scenario S4 (map over a list)", func() {
		resp, decoded := postTranslate(ts, `classes = map &schedule { subject = &class; }`,
			json.RawMessage(`{"schedule":[{"class":"A","time":"10"},{"class":"B","time":"11"}]}`))
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		output := decoded["output"].(map[string]any)
		classes := output["classes"].([]any)
		Expect(classes).To(HaveLen(2))
		Expect(classes[0].(map[string]any)["subject"]).To(Equal("A"))
		Expect(classes[1].(map[string]any)["subject"]).To(Equal("B"))
	})

	It("evaluates scenario S5 (zip over literal lists)", func() {
		resp, decoded := postTranslate(ts, `nums = zip [1,2,3] ["one","two","three"] { v = &?.0; n = &?.1; }`, json.RawMessage(`{}`))
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		output := decoded["output"].(map[string]any)
		nums := output["nums"].([]any)
		Expect(nums).To(HaveLen(3))
		first := nums[0].(map[string]any)
		Expect(first["v"]).To(Equal(float64(1)))
		Expect(first["n"]).To(Equal("one"))
	})

	It("evaluates scenario S6 (global reach via &!)", func() {
		resp, decoded := postTranslate(ts, `items = map &inventory { item = &?; store = &!store; }`,
			json.RawMessage(`{"store":"S","inventory":["a","b"]}`))
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		output := decoded["output"].(map[string]any)
		items := output["items"].([]any)
		Expect(items).To(HaveLen(2))
		Expect(items[0].(map[string]any)["store"]).To(Equal("S"))
		Expect(items[1].(map[string]any)["item"]).To(Equal("b"))
	})

	It("evaluates scenario S7 (error): missing field is reported as 422 MissingField", func() {
		resp, decoded := postTranslate(ts, `x = &missing;`, json.RawMessage(`{}`))
		Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))
		errBody := decoded["error"].(map[string]any)
		Expect(errBody["kind"]).To(Equal("MissingField"))
		Expect(errBody["path"]).To(Equal("$.x"))
	})

	It("evaluates scenario S8 (error): indexing an object is reported as 422 TypeMismatch", func() {
		resp, decoded := postTranslate(ts, `x = &a.0;`, json.RawMessage(`{"a":{}}`))
		Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))
		errBody := decoded["error"].(map[string]any)
		Expect(errBody["kind"]).To(Equal("TypeMismatch"))
	})

	It("reports a parse error as 400", func() {
		resp, decoded := postTranslate(ts, `x = ;`, json.RawMessage(`{}`))
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		errBody := decoded["error"].(map[string]any)
		Expect(errBody["kind"]).To(Equal("ParseError"))
	})

	It("rejects a request body larger than the configured limit", func() {
		oversized := server.New(slog.New(slog.NewTextHandler(io.Discard, nil)), 16)
		oversizedTS := httptest.NewServer(oversized)
		defer oversizedTS.Close()

		resp, decoded := postTranslate(oversizedTS, `speaker = &actor;`, json.RawMessage(`{"actor":"Alice"}`))
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		errBody := decoded["error"].(map[string]any)
		Expect(errBody["kind"]).To(Equal("ParseError"))
	})

	It("responds to /healthz", func() {
		resp, err := http.Get(ts.URL + "/healthz") //nolint:noctx
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
	})

	It("exposes Prometheus metrics", func() {
		resp, err := http.Get(ts.URL + "/metrics") //nolint:noctx
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
	})
})
