package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	apperrors "github.com/y-hirakaw/accident-charts/internal/errors"
)

// ChartProfile は1つのグラフの見た目の設定
type ChartProfile struct {
	// Title が空の場合はロケールごとの既定タイトルを使う
	Title  string `yaml:"title,omitempty"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Profile は charts.yaml の内容
type Profile struct {
	Pie       ChartProfile `yaml:"pie"`
	Accidents ChartProfile `yaml:"accidents"`
}

// DefaultProfile は既定のグラフ設定を返す
func DefaultProfile() *Profile {
	return &Profile{
		Pie:       ChartProfile{Width: 450, Height: 400},
		Accidents: ChartProfile{Width: 600, Height: 450},
	}
}

// fill は未指定の寸法を既定値で埋める
func (p *Profile) fill() {
	def := DefaultProfile()
	if p.Pie.Width <= 0 {
		p.Pie.Width = def.Pie.Width
	}
	if p.Pie.Height <= 0 {
		p.Pie.Height = def.Pie.Height
	}
	if p.Accidents.Width <= 0 {
		p.Accidents.Width = def.Accidents.Width
	}
	if p.Accidents.Height <= 0 {
		p.Accidents.Height = def.Accidents.Height
	}
}

// ProfileManager は charts.yaml の読み書きを行う
type ProfileManager struct {
	path string
}

// NewProfileManager は新しいProfileManagerを作成する
func NewProfileManager(path string) *ProfileManager {
	return &ProfileManager{path: path}
}

// Path は設定ファイルのパスを返す
func (m *ProfileManager) Path() string {
	return m.path
}

// Load は設定を読み込む。ファイルが存在しない場合は既定値を返す
func (m *ProfileManager) Load() (*Profile, error) {
	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		return DefaultProfile(), nil
	}
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorTypeFile, "config_invalid", m.path)
	}

	profile := DefaultProfile()
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, apperrors.ConfigInvalid(fmt.Errorf("parse %s: %w", m.path, err))
	}
	profile.fill()
	return profile, nil
}

// Save は設定を書き込む
func (m *ProfileManager) Save(profile *Profile) error {
	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.WrapError(err, apperrors.ErrorTypeFile, "config_invalid", m.path)
		}
	}

	data, err := yaml.Marshal(profile)
	if err != nil {
		return apperrors.ConfigInvalid(err)
	}
	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return apperrors.WrapError(err, apperrors.ErrorTypeFile, "config_invalid", m.path)
	}
	return nil
}

// Exists は設定ファイルが存在するかを返す
func (m *ProfileManager) Exists() bool {
	_, err := os.Stat(m.path)
	return err == nil
}
