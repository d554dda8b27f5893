package main

import "testing"

func TestHotTopicScore(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
		want    float64
	}{
		{"breaking with bracket and punctuation", "[속보] 긴급 발표!", "", 2.8},
		{"plain weather", "오늘의 날씨", "", 0},
		{"trending only", "최근 논란이 된 사건", "", 1.5},
		{"viral only below threshold", "실시간 반응 모음", "", 1.3},
		{"significant only below threshold", "공식 입장문 전문", "", 1.2},
		{"keyword in content not title", "발표 내용", "이번 중대발표는 업계 전반에", 1.2},
		{"stacked categories", "단독 입수, 충격적인 공식 문서", "", 4.7},
		{"question mark bonus", "사실일까?", "", 0.3},
		{"category counted once", "속보 그리고 또 속보, 긴급", "", 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hotTopicScore(tt.title, tt.content)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("hotTopicScore(%q, %q) = %v, want %v", tt.title, tt.content, got, tt.want)
			}
		})
	}
}

func TestIsHotTopic(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  bool
	}{
		{"breaking bracket title", "[속보] 긴급 발표!", true},
		{"weather not notable", "오늘의 날씨", false},
		{"trending at threshold", "논란의 중심", true},
		{"viral below threshold", "급상승 검색어", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isHotTopic(tt.title, ""); got != tt.want {
				t.Errorf("isHotTopic(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}
