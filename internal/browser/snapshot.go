package browser

import (
	"fmt"
	"strings"
)

const (
	// ActiveDialogHeader opens the tree when a modal is on top of the page.
	ActiveDialogHeader = "=== ACTIVE DIALOG ==="

	maxTextLen = 100
	maxDepth   = 20
)

type PageSnapshot struct {
	URL              string
	Title            string
	Tree             string
	ScreenshotBase64 string
}

// HasDialog reports whether the snapshot was taken with a modal open.
func (s *PageSnapshot) HasDialog() bool {
	if s == nil {
		return false
	}
	return strings.HasPrefix(s.Tree, ActiveDialogHeader) ||
		strings.Contains(s.Tree, `context="dialog"`)
}

// Selector addresses an element tagged by the snapshot script.
func Selector(id int) string {
	return fmt.Sprintf("[data-ai-id='%d']", id)
}

func highlightScript(id int) string {
	return fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (el) {
			el.style.outline = "5px solid red";
			el.style.zIndex = "999999";
			el.scrollIntoView({behavior: "smooth", block: "center", inline: "center"});
		}
	})()`, Selector(id))
}

func scrollScript(dy int) string {
	return fmt.Sprintf(`window.scrollBy({top: %d, behavior: 'smooth'});`, dy)
}

// snapshotScript walks the visible DOM, tags interactive elements with
// data-ai-id and returns an indented text tree such as
//
//	[3] <input label="Search" kind="search">
//
// Elements outside the viewport are skipped until the page is scrolled.
var snapshotScript = fmt.Sprintf(`() => {
	let idCounter = 1;
	const interactiveTags = new Set(['a', 'button', 'input', 'textarea', 'select', 'details', 'summary']);
	const interactiveRoles = new Set(['button', 'link', 'checkbox', 'menuitem', 'tab', 'textbox', 'combobox', 'option', 'radio', 'switch']);
	const skipTags = new Set(['script', 'style', 'svg', 'path', 'noscript']);
	const headingTags = new Set(['h1', 'h2', 'h3', 'h4', 'h5']);

	document.querySelectorAll('[data-ai-id]').forEach(el => el.removeAttribute('data-ai-id'));

	function cleanText(text) {
		if (!text) return '';
		const res = text.replace(/\s+/g, ' ').trim();
		return res.length > %d ? res.slice(0, %d) + '...' : res;
	}

	function isVisible(el) {
		if (!el || !el.getBoundingClientRect) return false;
		if (el.getAttribute('aria-hidden') === 'true') return false;

		const rect = el.getBoundingClientRect();
		const style = window.getComputedStyle(el);
		const inViewport = rect.top < window.innerHeight && rect.bottom > 0 &&
			rect.left < window.innerWidth && rect.right > 0;

		return rect.width > 0 && rect.height > 0 &&
			style.visibility !== 'hidden' &&
			style.display !== 'none' &&
			style.opacity !== '0' &&
			inViewport;
	}

	function isInteractive(el) {
		const tag = el.tagName.toLowerCase();
		const role = (el.getAttribute('role') || '').toLowerCase();
		const tabIndex = el.getAttribute('tabindex');
		return interactiveTags.has(tag) || interactiveRoles.has(role) ||
			(tabIndex !== null && tabIndex !== '-1') || el.onclick != null;
	}

	function escapeAttr(value) {
		return value.replace(/"/g, '\\"');
	}

	function inDialog(el) {
		for (let cur = el; cur && cur !== document.body; cur = cur.parentElement) {
			const role = (cur.getAttribute('role') || '').toLowerCase();
			if (role === 'dialog' || role === 'alertdialog' || cur.getAttribute('aria-modal') === 'true') {
				return true;
			}
		}
		return false;
	}

	function kindOf(el) {
		const tag = el.tagName.toLowerCase();
		const role = (el.getAttribute('role') || '').toLowerCase();
		const type = (el.getAttribute('type') || '').toLowerCase();

		if (tag === 'button' || role === 'button') return 'button';
		if (tag === 'a' || role === 'link') return 'link';
		if (tag === 'select') return 'select';
		if (tag === 'textarea') return 'input';
		if (tag === 'input') {
			if (['checkbox', 'radio', 'search', 'submit'].includes(type)) return type;
			return 'input';
		}
		return '';
	}

	function labelOf(el, tag) {
		let label = cleanText(el.innerText || el.textContent || '');
		if (!label) label = cleanText(el.getAttribute('aria-label') || '');
		if (!label) label = cleanText(el.getAttribute('title') || '');
		if ((tag === 'input' || tag === 'textarea') && !label) {
			label = cleanText(el.getAttribute('placeholder') || el.getAttribute('name') || '');
		}
		return label;
	}

	function findActiveModal() {
		const selectors = ['[role="dialog"]', '[role="alertdialog"]', '[aria-modal="true"]', '.modal', '.overlay'];
		let best = null;
		let bestZ = -Infinity;
		for (const el of document.querySelectorAll(selectors.join(','))) {
			if (!isVisible(el)) continue;
			let z = parseInt(window.getComputedStyle(el).zIndex || '0', 10);
			if (Number.isNaN(z)) z = 0;
			if (z >= bestZ) {
				bestZ = z;
				best = el;
			}
		}
		return best;
	}

	function traverse(node, depth) {
		if (!node || depth > %d) return '';

		if (node.nodeType === Node.TEXT_NODE) {
			const text = cleanText(node.textContent);
			return text.length > 2 ? '  '.repeat(depth) + text + '\n' : '';
		}
		if (node.nodeType !== Node.ELEMENT_NODE) return '';

		const el = node;
		const tag = el.tagName.toLowerCase();
		if (skipTags.has(tag) || !isVisible(el)) return '';

		const prefix = '  '.repeat(depth);
		let output = '';

		if (isInteractive(el)) {
			const aiId = idCounter++;
			el.setAttribute('data-ai-id', String(aiId));

			const parts = ['<' + tag];
			const label = labelOf(el, tag);
			if (label) parts.push('label="' + escapeAttr(label) + '"');
			const kind = kindOf(el);
			if (kind) parts.push('kind="' + kind + '"');
			if (inDialog(el)) parts.push('context="dialog"');
			if (tag === 'input' || tag === 'textarea') {
				const val = cleanText(el.value);
				if (val) parts.push('value="' + escapeAttr(val) + '"');
			}
			output += prefix + '[' + aiId + '] ' + parts.join(' ') + '>\n';
		} else if (headingTags.has(tag)) {
			output += prefix + '<' + tag + '> ' + cleanText(el.innerText) + '\n';
		}

		for (const child of el.childNodes) {
			output += traverse(child, depth + 1);
		}
		return output;
	}

	const activeModal = findActiveModal();
	const header = activeModal ? %q + "\n" : "";
	return header + traverse(activeModal || document.body, 0);
}`, maxTextLen, maxTextLen, maxDepth, ActiveDialogHeader)
